package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	pb "github.com/go-marmot/marmot/internal/rpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var kindCodes = map[string]codes.Code{
	KindDataSetNotFound:   codes.NotFound,
	KindExecutionNotFound: codes.NotFound,
	KindColumnNotFound:    codes.InvalidArgument,
	KindDataSetExists:     codes.AlreadyExists,
	KindDuplicateColumn:   codes.InvalidArgument,
	KindTypeMismatch:      codes.InvalidArgument,
	KindInvalidPlan:       codes.InvalidArgument,
	KindUnknownCodec:      codes.InvalidArgument,
	KindCancelled:         codes.Canceled,
	KindStreamClosed:      codes.Aborted,
	KindChecksum:          codes.DataLoss,
}

// kindOf classifies an arbitrary error for the wire
func kindOf(err error) (kind string, detail string) {
	var kinded Kinded
	if stderrors.As(err, &kinded) {
		return kinded.Kind(), kinded.Detail()
	}
	if stderrors.Is(err, context.Canceled) {
		return KindCancelled, err.Error()
	}
	return KindInternal, err.Error()
}

// ToStatus converts an error into a gRPC status error whose message is "<kind>: <detail>".
// Errors which are already gRPC status errors are passed through unchanged.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	kind, detail := kindOf(err)
	code, ok := kindCodes[kind]
	if !ok {
		code = codes.Internal
	}
	return status.Error(code, fmt.Sprintf("%s: %s", kind, detail))
}

// FromStatus reconstructs a typed error from a gRPC status error produced by ToStatus.
// Errors which are not gRPC status errors are returned unchanged.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	msg := st.Message()
	if idx := strings.Index(msg, ": "); idx > 0 {
		if typed := fromKind(msg[:idx], msg[idx+2:]); typed != nil {
			return typed
		}
	}
	switch st.Code() {
	case codes.Canceled:
		return CancelledError{Reason: msg}
	case codes.DeadlineExceeded:
		return context.DeadlineExceeded
	}
	return RemoteError{ErrKind: st.Code().String(), Message: msg}
}

// ToProto converts an error into an ErrorProto for transmission on a stream
func ToProto(err error) *pb.ErrorProto {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		err = FromStatus(err)
	}
	kind, detail := kindOf(err)
	return &pb.ErrorProto{Kind: kind, Message: detail}
}

// FromProto reconstructs a typed error from an ErrorProto
func FromProto(proto *pb.ErrorProto) error {
	if proto == nil {
		return nil
	}
	if typed := fromKind(proto.GetKind(), proto.GetMessage()); typed != nil {
		return typed
	}
	return RemoteError{ErrKind: proto.GetKind(), Message: proto.GetMessage()}
}

func fromKind(kind string, detail string) error {
	switch kind {
	case KindDataSetNotFound:
		return DataSetNotFoundError{ID: detail}
	case KindDataSetExists:
		return DataSetExistsError{ID: detail}
	case KindColumnNotFound:
		return ColumnNotFoundError{Name: detail}
	case KindDuplicateColumn:
		return DuplicateColumnError{Name: detail}
	case KindTypeMismatch:
		parts := strings.SplitN(detail, ",", 3)
		if len(parts) != 3 {
			return RemoteError{ErrKind: kind, Message: detail}
		}
		return TypeMismatchError{Column: parts[0], Expected: parts[1], Actual: parts[2]}
	case KindExecutionNotFound:
		return ExecutionNotFoundError{ID: detail}
	case KindInvalidPlan:
		return InvalidPlanError{Reason: detail}
	case KindCancelled:
		return CancelledError{Reason: detail}
	case KindStreamClosed:
		return StreamClosedError{}
	case KindChecksum:
		parts := strings.SplitN(detail, ",", 2)
		if len(parts) != 2 {
			return RemoteError{ErrKind: kind, Message: detail}
		}
		expected, err1 := strconv.ParseUint(parts[0], 16, 64)
		actual, err2 := strconv.ParseUint(parts[1], 16, 64)
		if err1 != nil || err2 != nil {
			return RemoteError{ErrKind: kind, Message: detail}
		}
		return ChecksumError{Expected: expected, Actual: actual}
	case KindUnknownCodec:
		return UnknownCodecError{Name: detail}
	case KindInternal:
		return RemoteError{ErrKind: kind, Message: detail}
	default:
		return nil
	}
}
