package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func ptrs(ss ...string) []*string {
	out := make([]*string, 0, len(ss))
	for _, s := range ss {
		out = append(out, ptr(s))
	}
	return out
}

func sampleInput() EventInput {
	return EventInput{
		EventName:     ptr("GopherCon"),
		Venue:         ptr("Main hall"),
		WhenStartDate: ptr("2026-06-01"),
		WhenStartTime: ptr("09:30"),
		WhenEndDate:   ptr("2026-06-02"),
		WhenEndTime:   ptr("18:00:00"),
		Website:       ptr("https://example.com"),
		Description:   ptr(""),
		VenueDetails:  ptr("2nd floor"),
		Tags:          ptrs("go", "conference", "go"),
	}
}

func TestEventInputToEvent(t *testing.T) {
	in := sampleInput()
	evt := in.ToEvent(7)

	assert.Equal(t, int64(7), evt.ID)
	assert.Equal(t, "GopherCon", evt.EventName)
	assert.Equal(t, "09:30:00", evt.WhenStartTime)
	assert.Equal(t, "18:00:00", evt.WhenEndTime)
	assert.Equal(t, "", evt.Description)
	assert.Equal(t, []string{"go", "conference", "go"}, evt.Tags)

	*in.Tags[0] = "changed"
	assert.Equal(t, "go", evt.Tags[0])
}

func TestEventInputToEventEmptyTags(t *testing.T) {
	in := sampleInput()
	in.Tags = []*string{}
	evt := in.ToEvent(1)

	require.NotNil(t, evt.Tags)
	assert.Empty(t, evt.Tags)
}

func TestEventStartsEndsAt(t *testing.T) {
	in := sampleInput()
	evt := in.ToEvent(1)

	start, err := evt.StartsAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC), start)

	end, err := evt.EndsAt()
	require.NoError(t, err)
	assert.True(t, end.After(start))

	evt.WhenEndDate = "not-a-date"
	_, err = evt.EndsAt()
	assert.Error(t, err)
}
