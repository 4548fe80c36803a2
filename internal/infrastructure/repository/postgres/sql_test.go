package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestIsBindParameterMismatch(t *testing.T) {
	t.Run("matches bind mismatch error", func(t *testing.T) {
		err := fakeErr("pq: bind message supplies 2 parameters, but prepared statement \"\" requires 1 (08P01)")
		if !isBindParameterMismatch(err) {
			t.Fatalf("expected true for bind mismatch error")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		err := fakeErr("pq: relation team_standings does not exist")
		if isBindParameterMismatch(err) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestIsUnnamedPreparedStatementMissing(t *testing.T) {
	t.Run("matches statement missing message", func(t *testing.T) {
		err := fakeErr("pq: unnamed prepared statement does not exist (26000)")
		if !isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected true for statement missing error")
		}
	})

	t.Run("matches by 26000 code", func(t *testing.T) {
		err := fakeErr("pq: prepared statement missing (26000)")
		if !isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected true for 26000 prepared statement error")
		}
	})

	t.Run("wrapped errors still match", func(t *testing.T) {
		err := fmt.Errorf("select fixtures by scope: %w", fakeErr("pq: unnamed prepared statement does not exist"))
		if !isRetryableStatementError(err) {
			t.Fatalf("expected wrapped statement error to be retryable")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		if isRetryableStatementError(fakeErr("pq: deadlock detected (40P01)")) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get scope: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to match")
	}
	if isNotFound(errors.New("boom")) {
		t.Fatalf("expected unrelated error to not match")
	}
}

func TestDateHelpers(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	got := dateOnly(time.Date(2026, 8, 15, 1, 30, 0, 0, loc))
	want := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("dateOnly = %s, want %s", got, want)
	}
	if p := dateParam(want); p != "2026-08-15" {
		t.Fatalf("dateParam = %q", p)
	}
	if v := datePtrParam(nil); v.Valid {
		t.Fatalf("nil date must map to NULL")
	}
	if v := nullDatePtr(sql.NullTime{Time: want, Valid: true}); v == nil || !v.Equal(want) {
		t.Fatalf("nullDatePtr = %v", v)
	}
}

func TestNullInt64Helpers(t *testing.T) {
	if nullInt64Ptr(sql.NullInt64{}) != nil {
		t.Fatalf("expected nil for NULL")
	}
	v := int64(12)
	n := int64PtrToNull(&v)
	if !n.Valid || n.Int64 != 12 {
		t.Fatalf("unexpected null int %+v", n)
	}
	if got := nullInt64Ptr(n); got == nil || *got != 12 {
		t.Fatalf("round trip lost value: %v", got)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
