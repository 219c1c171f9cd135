package access

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"recruitbot/internal/access/secrets"
)

type AccessServiceSuite struct {
	suite.Suite
	service *Service
}

func TestAccessServiceSuite(t *testing.T) {
	suite.Run(t, new(AccessServiceSuite))
}

func (s *AccessServiceSuite) SetupTest() {
	var err error
	s.service, err = New(PlainKey("operator-key-0123456789"),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.Require().NoError(err)
}

func (s *AccessServiceSuite) TestNewMatcher() {
	s.Run("missing key is an error", func() {
		_, err := NewMatcher("", "")
		s.Error(err)
	})

	s.Run("hash takes precedence over plain", func() {
		hash, err := secrets.Hash("hashed-key")
		s.Require().NoError(err)

		m, err := NewMatcher("plain-key", hash)
		s.Require().NoError(err)
		s.True(m.Matches("hashed-key"))
		s.False(m.Matches("plain-key"))
	})

	s.Run("plain key", func() {
		m, err := NewMatcher("plain-key", "")
		s.Require().NoError(err)
		s.True(m.Matches("plain-key"))
		s.False(m.Matches(""))
	})
}

func (s *AccessServiceSuite) TestTryGrant() {
	ctx := context.Background()

	s.Run("wrong text grants nothing", func() {
		s.False(s.service.TryGrant(ctx, 1, "operator-key-012345678"))
		s.False(s.service.IsElevated(1))
	})

	s.Run("exact key grants elevated access", func() {
		s.True(s.service.TryGrant(ctx, 1, "operator-key-0123456789"))
		s.True(s.service.IsElevated(1))
		s.False(s.service.IsElevated(2))
	})

	s.Run("revoke drops the grant", func() {
		s.service.Revoke(1)
		s.False(s.service.IsElevated(1))
	})
}

func (s *AccessServiceSuite) TestNew_NilMatcher() {
	_, err := New(nil)
	s.Error(err)
	s.Contains(err.Error(), "key matcher is required")
}
