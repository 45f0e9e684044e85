// Package marmot contains the client-side data model of Marmot, a geospatial
// batch-processing system. Records, RecordSchemas and DataSets describe the
// tabular and geospatial data that Plans (see the plan package) operate on;
// the client package ships those Plans to a remote Marmot server and streams
// RecordSets back over gRPC (see the stream package).
package marmot
