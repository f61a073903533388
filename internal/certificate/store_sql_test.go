package certificate_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/heartwise-th/heartwise-lms/internal/certificate"
	"github.com/heartwise-th/heartwise-lms/internal/db"
	"github.com/heartwise-th/heartwise-lms/internal/fault"
)

func openStore(t *testing.T) *certificate.SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	h, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = h.Close() })
	return certificate.NewSQLStore(h)
}

func sampleCert(id, userID, courseID, number string) certificate.Certificate {
	return certificate.Certificate{
		ID:                id,
		UserID:            userID,
		CourseID:          courseID,
		CourseName:        "CPR Basics",
		StudentName:       "Ada Lovelace",
		CompletedAt:       time.Unix(1741944413, 0).UTC(),
		Score:             3,
		TotalScore:        3,
		Percentage:        100,
		CertificateNumber: number,
	}
}

func TestSQLStore_InsertGetRoundTrip(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	want := sampleCert("cert1", "u1", "cpr", "CPR-413123-AB12CD")
	if err := st.Insert(ctx, want); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := st.GetByCourse(ctx, "u1", "cpr")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestSQLStore_DuplicatePairRejected(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	if err := st.Insert(ctx, sampleCert("cert1", "u1", "cpr", "CPR-000001-AAAAAA")); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := st.Insert(ctx, sampleCert("cert2", "u1", "cpr", "CPR-000002-BBBBBB"))
	if !errors.Is(err, certificate.ErrExists) {
		t.Fatalf("expected ErrExists for duplicate (user, course), got %v", err)
	}
}

func TestSQLStore_DuplicateNumberRejected(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	if err := st.Insert(ctx, sampleCert("cert1", "u1", "cpr", "CPR-000001-AAAAAA")); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := st.Insert(ctx, sampleCert("cert2", "u2", "cpr", "CPR-000001-AAAAAA"))
	if !errors.Is(err, certificate.ErrExists) {
		t.Fatalf("expected ErrExists for duplicate number, got %v", err)
	}
}

func TestSQLStore_GetMissesWithNotFound(t *testing.T) {
	st := openStore(t)
	if _, err := st.GetByCourse(context.Background(), "u1", "nope"); !errors.Is(err, fault.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLStore_ListByUser(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	for _, c := range []certificate.Certificate{
		sampleCert("cert1", "u1", "cpr", "CPR-000001-AAAAAA"),
		sampleCert("cert2", "u1", "aed", "CPR-000002-BBBBBB"),
		sampleCert("cert3", "u2", "cpr", "CPR-000003-CCCCCC"),
	} {
		if err := st.Insert(ctx, c); err != nil {
			t.Fatalf("insert %s: %v", c.ID, err)
		}
	}
	certs, err := st.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(certs) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(certs), certs)
	}
}
