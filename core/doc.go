// Package core provides core types used throughout TemporalDB.
//
// The package defines the Revision record and its invariants, the Identity
// used for commit attribution, and the Table, Column, and View schema types.
//
// # Revision
//
// A Revision is one version of a logical entity. All revisions of an entity
// share its entity id; each covers an effective interval [AddedAt, RemovedAt),
// open-ended when RemovedAt is unset:
//
//	rev := core.Revision{
//	    RevisionID: 7,
//	    EntityID:   3,
//	    AddedAt:    time.Now(),
//	    Payload:    map[string]string{"name": "Abraham Lincoln"},
//	}
//
// Three invariants hold for every committed revision set:
//
//  1. EntityID <= RevisionID (auto-assigned entities use EntityID == RevisionID).
//  2. AddedAt <= RemovedAt when RemovedAt is set; zero-length intervals are
//     legal and model same-instant supersession under a coarse clock.
//  3. Intervals of one entity never overlap: at most one revision of an
//     entity is active at any instant.
//
// A write that would break (1) or (2) is rejected with ErrConstraintViolation;
// a read that observes (3) broken reports ErrIntegrity. Both are sentinels,
// so callers test with errors.Is:
//
//	if errors.Is(err, core.ErrConstraintViolation) { ... }
//
// # Identity
//
// Identity identifies the author of transactions (Git commit author):
//
//	identity := core.Identity{
//	    Name:  "John Doe",
//	    Email: "john@example.com",
//	}
//
// # Table Definition
//
//	table := core.Table{
//	    Name: "people",
//	    Columns: []core.Column{
//	        {Name: "id", Type: core.IntType, PrimaryKey: true},
//	        {Name: "name", Type: core.StringType},
//	    },
//	}
//
// The primary-key column holds entity ids and must be an INT column. A table
// without a primary key auto-assigns entity ids from revision ids.
package core
