package services

import (
	"strings"

	applog "chiva/internal/log"
	"chiva/internal/repos"
)

// AdminService reconciles the persisted is_admin flags against the configured
// admin email list. One-way: config is the desired state, the DB follows.
type AdminService struct {
	Users *repos.UserRepo
}

func NewAdminService(users *repos.UserRepo) *AdminService {
	return &AdminService{Users: users}
}

type ReconcileReport struct {
	Granted []string
	Revoked []string
	Total   int
}

// Reconcile applies only the deltas between the configured admin set and the
// stored flags, and audit-logs each change.
func (s *AdminService) Reconcile(adminEmails []string) (ReconcileReport, error) {
	want := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			want[e] = true
		}
	}

	users, err := s.Users.All()
	if err != nil {
		return ReconcileReport{}, err
	}

	rep := ReconcileReport{Total: len(users)}
	for _, u := range users {
		should := want[strings.ToLower(u.Email)]
		if should == u.IsAdmin {
			continue
		}
		if err := s.Users.SetAdmin(u.ID, should); err != nil {
			return rep, err
		}
		if should {
			rep.Granted = append(rep.Granted, u.Email)
		} else {
			rep.Revoked = append(rep.Revoked, u.Email)
		}
		applog.Plain("audit", "admin.flag.change", nil, map[string]any{
			"email":    u.Email,
			"is_admin": should,
		})
	}
	return rep, nil
}
