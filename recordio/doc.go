// Package recordio serializes RecordSets as a stream of length-delimited
// protobuf messages: a RecordSetHeader carrying the schema, followed by one
// RecordProto per record. It also imports JSON Lines data into RecordSets.
package recordio
