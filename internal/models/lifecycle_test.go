package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusRejected, true},
		{StatusInProgress, StatusResolved, true},
		{StatusInProgress, StatusRejected, true},
		{StatusPending, StatusResolved, false},
		{StatusPending, StatusPending, false},
		{StatusInProgress, StatusPending, false},
		{StatusResolved, StatusInProgress, false},
		{StatusResolved, StatusPending, false},
		{StatusRejected, StatusPending, false},
		{StatusRejected, StatusResolved, false},
	}
	for _, c := range cases {
		t.Run(string(c.from)+"->"+string(c.to), func(t *testing.T) {
			err := CheckTransition(c.from, c.to)
			if c.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestCheckTransitionUnknownStatus(t *testing.T) {
	err := CheckTransition(StatusPending, "closed")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "status", ve.Field)
}

func TestTerminalStatusesHaveNoSuccessors(t *testing.T) {
	for _, s := range Statuses {
		assert.Equal(t, s.Terminal(), len(s.Next()) == 0, s)
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindValidation, KindOf(Invalid("title", "is required")))
	assert.Equal(t, KindUnauthorized, KindOf(ErrInvalidCredentials))
	assert.Equal(t, KindForbidden, KindOf(ErrForbidden))
	assert.Equal(t, KindNotFound, KindOf(errors.Join(errors.New("grievance x"), ErrNotFound)))
	assert.Equal(t, KindConflict, KindOf(CheckTransition(StatusResolved, StatusPending)))
	assert.Equal(t, KindConflict, KindOf(ErrVersionConflict))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestGrievanceCloneIsDeep(t *testing.T) {
	lat := 1.5
	g := Grievance{
		Location:    &Location{Address: "a", Latitude: &lat},
		Attachments: []string{"x"},
		Comments:    []Comment{{ID: "c1"}},
	}
	c := g.Clone()
	c.Location.Address = "b"
	*c.Location.Latitude = 2
	c.Attachments[0] = "y"
	c.Comments[0].ID = "c2"

	assert.Equal(t, "a", g.Location.Address)
	assert.Equal(t, 1.5, *g.Location.Latitude)
	assert.Equal(t, "x", g.Attachments[0])
	assert.Equal(t, "c1", g.Comments[0].ID)
}
