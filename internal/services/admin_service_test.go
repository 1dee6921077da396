package services_test

import (
	"testing"

	"chiva/internal/repos"
	"chiva/internal/services"
)

func TestAdminReconcile_GrantsAndRevokes(t *testing.T) {
	f := newFixture(t)
	if _, err := f.db.Exec(`INSERT INTO users(id,email,is_admin) VALUES
	  ('u-ana','ana@chiva.test',0),
	  ('u-berta','berta@chiva.test',1),
	  ('u-carlos','carlos@chiva.test',1)`); err != nil {
		t.Fatal(err)
	}

	svc := services.NewAdminService(repos.NewUserRepo(f.db))
	rep, err := svc.Reconcile([]string{" Ana@Chiva.test ", "berta@chiva.test"})
	if err != nil {
		t.Fatal(err)
	}

	if rep.Total != 3 {
		t.Fatalf("total = %d, want 3", rep.Total)
	}
	if len(rep.Granted) != 1 || rep.Granted[0] != "ana@chiva.test" {
		t.Fatalf("granted = %v", rep.Granted)
	}
	if len(rep.Revoked) != 1 || rep.Revoked[0] != "carlos@chiva.test" {
		t.Fatalf("revoked = %v", rep.Revoked)
	}

	var flags []struct {
		Email   string `db:"email"`
		IsAdmin bool   `db:"is_admin"`
	}
	if err := f.db.Select(&flags, `SELECT email, is_admin FROM users ORDER BY email`); err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{
		"ana@chiva.test":    true,
		"berta@chiva.test":  true,
		"carlos@chiva.test": false,
	}
	for _, u := range flags {
		if u.IsAdmin != want[u.Email] {
			t.Fatalf("%s is_admin = %v, want %v", u.Email, u.IsAdmin, want[u.Email])
		}
	}
}

func TestAdminReconcile_NoChangesIsQuiet(t *testing.T) {
	f := newFixture(t)
	if _, err := f.db.Exec(`INSERT INTO users(id,email,is_admin) VALUES ('u-ana','ana@chiva.test',1)`); err != nil {
		t.Fatal(err)
	}

	svc := services.NewAdminService(repos.NewUserRepo(f.db))
	rep, err := svc.Reconcile([]string{"ana@chiva.test"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Granted) != 0 || len(rep.Revoked) != 0 {
		t.Fatalf("unexpected deltas: %+v", rep)
	}
}
