package guard

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"betelgeuse-console/internal/session"
)

type GuardSuite struct {
	suite.Suite
}

func TestGuardSuite(t *testing.T) {
	suite.Run(t, new(GuardSuite))
}

func (s *GuardSuite) sessionWithRole(role session.Role) *session.Session {
	return &session.Session{
		ID:   uuid.New(),
		User: session.User{Username: "someone", Role: role},
	}
}

func (s *GuardSuite) TestForRole() {
	s.Run("anonymous is sent to login", func() {
		d := ForRole(nil, session.RoleAdmin)
		s.False(d.Allow)
		s.Equal(PathLogin, d.RedirectTo)
	})

	s.Run("anonymous is sent to login even for any-role routes", func() {
		d := ForRole(nil, "")
		s.False(d.Allow)
		s.Equal(PathLogin, d.RedirectTo)
	})

	s.Run("matching role is allowed", func() {
		d := ForRole(s.sessionWithRole(session.RoleAdmin), session.RoleAdmin)
		s.True(d.Allow)
		s.Empty(d.RedirectTo)
	})

	s.Run("any authenticated user passes empty required role", func() {
		s.True(ForRole(s.sessionWithRole(session.RoleOperator), "").Allow)
		s.True(ForRole(s.sessionWithRole(session.RoleAdmin), "").Allow)
	})

	s.Run("operator on admin route goes to operator home", func() {
		d := ForRole(s.sessionWithRole(session.RoleOperator), session.RoleAdmin)
		s.False(d.Allow)
		s.Equal(PathOperatorHome, d.RedirectTo)
	})

	s.Run("admin on operator route goes to admin home", func() {
		d := ForRole(s.sessionWithRole(session.RoleAdmin), session.RoleOperator)
		s.False(d.Allow)
		s.Equal(PathAdminHome, d.RedirectTo)
	})
}

func (s *GuardSuite) TestForPublic() {
	s.Run("anonymous may see login", func() {
		s.True(ForPublic(nil).Allow)
	})

	s.Run("authenticated admin is sent home", func() {
		d := ForPublic(s.sessionWithRole(session.RoleAdmin))
		s.False(d.Allow)
		s.Equal(PathAdminHome, d.RedirectTo)
	})

	s.Run("authenticated operator is sent to operator home", func() {
		d := ForPublic(s.sessionWithRole(session.RoleOperator))
		s.False(d.Allow)
		s.Equal(PathOperatorHome, d.RedirectTo)
	})
}

func (s *GuardSuite) TestHomeFor() {
	s.Equal(PathAdminHome, HomeFor(session.RoleAdmin))
	s.Equal(PathOperatorHome, HomeFor(session.RoleOperator))
}
