package rpc

import (
	"github.com/golang/protobuf/proto"
)

// ExecuteOptionsProto tunes a plan execution
type ExecuteOptionsProto struct {
	DisableLocalExecution bool   `protobuf:"varint,1,opt,name=disable_local_execution,json=disableLocalExecution,proto3" json:"disable_local_execution,omitempty"`
	MapOutputCompression  string `protobuf:"bytes,2,opt,name=map_output_compression,json=mapOutputCompression,proto3" json:"map_output_compression,omitempty"`
	TimeoutMillis         int64  `protobuf:"varint,3,opt,name=timeout_millis,json=timeoutMillis,proto3" json:"timeout_millis,omitempty"`
}

func (m *ExecuteOptionsProto) Reset()         { *m = ExecuteOptionsProto{} }
func (m *ExecuteOptionsProto) String() string { return proto.CompactTextString(m) }
func (*ExecuteOptionsProto) ProtoMessage()    {}

// GetTimeoutMillis returns the execution timeout, 0 meaning none
func (m *ExecuteOptionsProto) GetTimeoutMillis() int64 {
	if m != nil {
		return m.TimeoutMillis
	}
	return 0
}

// ExecutePlanRequest asks the server to run a plan
type ExecutePlanRequest struct {
	Plan    *PlanProto           `protobuf:"bytes,1,opt,name=plan,proto3" json:"plan,omitempty"`
	Options *ExecuteOptionsProto `protobuf:"bytes,2,opt,name=options,proto3" json:"options,omitempty"`
}

func (m *ExecutePlanRequest) Reset()         { *m = ExecutePlanRequest{} }
func (m *ExecutePlanRequest) String() string { return proto.CompactTextString(m) }
func (*ExecutePlanRequest) ProtoMessage()    {}

// GetPlan returns the plan, if any
func (m *ExecutePlanRequest) GetPlan() *PlanProto {
	if m != nil {
		return m.Plan
	}
	return nil
}

// GetOptions returns the execution options, if any
func (m *ExecutePlanRequest) GetOptions() *ExecuteOptionsProto {
	if m != nil {
		return m.Options
	}
	return nil
}

// GetOutputSchemaRequest asks for the schema a plan would produce
type GetOutputSchemaRequest struct {
	Plan        *PlanProto         `protobuf:"bytes,1,opt,name=plan,proto3" json:"plan,omitempty"`
	InputSchema *RecordSchemaProto `protobuf:"bytes,2,opt,name=input_schema,json=inputSchema,proto3" json:"input_schema,omitempty"`
}

func (m *GetOutputSchemaRequest) Reset()         { *m = GetOutputSchemaRequest{} }
func (m *GetOutputSchemaRequest) String() string { return proto.CompactTextString(m) }
func (*GetOutputSchemaRequest) ProtoMessage()    {}

// ExecutionIdProto identifies an asynchronous execution
type ExecutionIdProto struct {
	Id string `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
}

func (m *ExecutionIdProto) Reset()         { *m = ExecutionIdProto{} }
func (m *ExecutionIdProto) String() string { return proto.CompactTextString(m) }
func (*ExecutionIdProto) ProtoMessage()    {}

// ExecutionStateProto reports the progress of an execution
type ExecutionStateProto struct {
	Id             string      `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	State          int32       `protobuf:"varint,2,opt,name=state,proto3" json:"state,omitempty"`
	Failure        *ErrorProto `protobuf:"bytes,3,opt,name=failure,proto3" json:"failure,omitempty"`
	StartedMillis  int64       `protobuf:"varint,4,opt,name=started_millis,json=startedMillis,proto3" json:"started_millis,omitempty"`
	FinishedMillis int64       `protobuf:"varint,5,opt,name=finished_millis,json=finishedMillis,proto3" json:"finished_millis,omitempty"`
}

func (m *ExecutionStateProto) Reset()         { *m = ExecutionStateProto{} }
func (m *ExecutionStateProto) String() string { return proto.CompactTextString(m) }
func (*ExecutionStateProto) ProtoMessage()    {}

// GetFailure returns the failure cause, if any
func (m *ExecutionStateProto) GetFailure() *ErrorProto {
	if m != nil {
		return m.Failure
	}
	return nil
}

// WaitForFinishedRequest long-polls an execution until it finishes or the timeout elapses
type WaitForFinishedRequest struct {
	Id            string `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	TimeoutMillis int64  `protobuf:"varint,2,opt,name=timeout_millis,json=timeoutMillis,proto3" json:"timeout_millis,omitempty"`
}

func (m *WaitForFinishedRequest) Reset()         { *m = WaitForFinishedRequest{} }
func (m *WaitForFinishedRequest) String() string { return proto.CompactTextString(m) }
func (*WaitForFinishedRequest) ProtoMessage()    {}

// OptionalRecordProto holds at most one record
type OptionalRecordProto struct {
	Record  *RecordProto `protobuf:"bytes,1,opt,name=record,proto3" json:"record,omitempty"`
	Present bool         `protobuf:"varint,2,opt,name=present,proto3" json:"present,omitempty"`
}

func (m *OptionalRecordProto) Reset()         { *m = OptionalRecordProto{} }
func (m *OptionalRecordProto) String() string { return proto.CompactTextString(m) }
func (*OptionalRecordProto) ProtoMessage()    {}

// Values of ExecutionStateProto.State
const (
	ExecutionRunning   int32 = 1
	ExecutionCompleted int32 = 2
	ExecutionFailed    int32 = 3
	ExecutionCancelled int32 = 4
)
