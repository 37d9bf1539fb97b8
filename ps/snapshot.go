package ps

import (
	"fmt"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
)

// Snapshot tags the current state (or a past transaction) under a name, so it
// can be recovered later even after further writes.
func (persistence *Persistence) Snapshot(name string, asof *Transaction) error {
	if asof != nil {
		_, err := persistence.repo.CreateTag(name, plumbing.NewHash(asof.Id), nil)

		return err
	} else {
		headRef, _ := persistence.repo.Head()

		_, err := persistence.repo.CreateTag(name, headRef.Hash(), nil)

		return err
	}
}

// Recover hard-resets the store to a named snapshot. This is storage-level
// recovery: the revision log itself moves back, unlike an as-of query which
// only reads the log at an instant.
func (persistence *Persistence) Recover(name string) error {
	fmt.Println("Recovering to snapshot:", name)

	wt, _ := persistence.repo.Worktree()
	ref, err := persistence.repo.Tag(name)
	if err != nil {
		return fmt.Errorf("snapshot %s not found: %w", name, err)
	}

	return wt.Reset(&git.ResetOptions{
		Mode:   git.HardReset,
		Commit: ref.Hash(),
	})
}

// Restore resets to a past transaction, optionally sparse to one table's
// revision log.
func (persistence *Persistence) Restore(asof Transaction, table *string) error {
	fmt.Println("Restoring to transaction:", asof.Id)

	wt, _ := persistence.repo.Worktree()

	sparseDirs := []string{}
	if table != nil {
		sparseDirs = append(sparseDirs, *table)
	}

	return wt.Reset(&git.ResetOptions{
		Mode:       git.HardReset,
		Commit:     plumbing.NewHash(asof.Id),
		SparseDirs: sparseDirs,
	})
}
