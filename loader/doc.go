// Package loader moves table data in and out of TemporalDB.
//
// ImportCSV loads rows from a CSV file into a table as a single bulk batch,
// so an import of any size lands as one commit. Export writes the full
// revision log as JSON Lines. Both accept local paths, file:// URLs, S3
// URLs (s3://bucket/key) and, for reading, HTTP(S) URLs.
//
//	log, _ := op.OpenTable("people", &persistence)
//	m := op.NewMutator(log, identity)
//	rows, result, err := loader.ImportCSV(m, "s3://imports/people.csv")
//
// A CSV column named added_at places each row on the timeline; rows without
// it import at the current instant. S3 access uses the default AWS
// credential chain unless an S3Config is given.
package loader
