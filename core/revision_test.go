package core

import (
	"errors"
	"testing"
	"time"
)

func TestPrecedes(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a, b Revision
		want bool
	}{
		{
			name: "earlier added_at precedes",
			a:    Revision{RevisionID: 2, AddedAt: base},
			b:    Revision{RevisionID: 1, AddedAt: base.Add(time.Second)},
			want: true,
		},
		{
			name: "later added_at does not precede",
			a:    Revision{RevisionID: 1, AddedAt: base.Add(time.Second)},
			b:    Revision{RevisionID: 2, AddedAt: base},
			want: false,
		},
		{
			name: "equal added_at breaks tie on revision id",
			a:    Revision{RevisionID: 1, AddedAt: base},
			b:    Revision{RevisionID: 2, AddedAt: base},
			want: true,
		},
		{
			name: "equal added_at higher revision id does not precede",
			a:    Revision{RevisionID: 2, AddedAt: base},
			b:    Revision{RevisionID: 1, AddedAt: base},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Precedes(tt.b); got != tt.want {
				t.Errorf("Precedes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestActiveAt(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := base.Add(time.Hour)

	open := Revision{RevisionID: 1, EntityID: 1, AddedAt: base}
	closed := Revision{RevisionID: 2, EntityID: 1, AddedAt: base, RemovedAt: &end}
	zero := Revision{RevisionID: 3, EntityID: 1, AddedAt: base, RemovedAt: &base}

	if open.ActiveAt(base.Add(-time.Second)) {
		t.Error("open revision should not be active before added_at")
	}
	if !open.ActiveAt(base) {
		t.Error("open revision should be active at added_at (inclusive)")
	}
	if !open.ActiveAt(base.Add(24 * 365 * time.Hour)) {
		t.Error("open revision should be active arbitrarily far in the future")
	}

	if !closed.ActiveAt(end.Add(-time.Nanosecond)) {
		t.Error("closed revision should be active just before removed_at")
	}
	if closed.ActiveAt(end) {
		t.Error("closed revision should not be active at removed_at (exclusive)")
	}

	if zero.ActiveAt(base) {
		t.Error("zero-length revision should be active at no instant")
	}
}

func TestValidate(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	earlier := base.Add(-time.Second)

	ok := Revision{RevisionID: 5, EntityID: 3, AddedAt: base}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid revision rejected: %v", err)
	}

	badEntity := Revision{RevisionID: 3, EntityID: 5, AddedAt: base}
	if err := badEntity.Validate(); !errors.Is(err, ErrConstraintViolation) {
		t.Errorf("entity id above revision id: got %v, want ErrConstraintViolation", err)
	}

	badInterval := Revision{RevisionID: 5, EntityID: 3, AddedAt: base, RemovedAt: &earlier}
	if err := badInterval.Validate(); !errors.Is(err, ErrConstraintViolation) {
		t.Errorf("inverted interval: got %v, want ErrConstraintViolation", err)
	}

	zero := Revision{RevisionID: 5, EntityID: 3, AddedAt: base, RemovedAt: &base}
	if err := zero.Validate(); err != nil {
		t.Errorf("zero-length interval should be legal: %v", err)
	}
}

func TestTableValidate(t *testing.T) {
	good := Table{Name: "people", Columns: []Column{
		{Name: "id", Type: IntType, PrimaryKey: true},
		{Name: "name", Type: StringType},
	}}
	if err := good.Validate(); err != nil {
		t.Errorf("valid table rejected: %v", err)
	}
	if col := good.EntityColumn(); col == nil || *col != "id" {
		t.Errorf("EntityColumn() = %v, want id", col)
	}

	noPk := Table{Name: "events", Columns: []Column{{Name: "what", Type: StringType}}}
	if err := noPk.Validate(); err != nil {
		t.Errorf("table without primary key rejected: %v", err)
	}
	if col := noPk.EntityColumn(); col != nil {
		t.Errorf("EntityColumn() = %v, want nil", col)
	}

	stringPk := Table{Name: "bad", Columns: []Column{{Name: "id", Type: StringType, PrimaryKey: true}}}
	if err := stringPk.Validate(); !errors.Is(err, ErrConstraintViolation) {
		t.Errorf("string primary key: got %v, want ErrConstraintViolation", err)
	}
}
