package observe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTimeline_RoundTrip(t *testing.T) {
	ctx, capture := RecordTimeline(context.Background())
	require.Nil(t, capture.Timeline(), "empty until the run completes")

	got, ok := TimelineCaptureFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, capture, got)

	tl := sampleTimeline()
	StoreTimelineCapture(capture, &tl)

	stored := capture.Timeline()
	require.NotNil(t, stored)
	assert.Equal(t, tl.Run.ID, stored.Run.ID)
	assert.Len(t, stored.Attempts, 1)
}

func TestRecordTimeline_NilContext(t *testing.T) {
	ctx, capture := RecordTimeline(nil)
	require.NotNil(t, ctx)
	require.NotNil(t, capture)
}

func TestTimelineCaptureFromContext_Absent(t *testing.T) {
	_, ok := TimelineCaptureFromContext(context.Background())
	assert.False(t, ok)

	_, ok = TimelineCaptureFromContext(nil)
	assert.False(t, ok)
}

func TestWithoutTimelineCapture_HidesCapture(t *testing.T) {
	ctx, _ := RecordTimeline(context.Background())
	ctx = WithoutTimelineCapture(ctx)

	_, ok := TimelineCaptureFromContext(ctx)
	assert.False(t, ok, "nested runs must not reuse the outer capture")
}

func TestStoreTimelineCapture_NilSafe(t *testing.T) {
	StoreTimelineCapture(nil, nil)

	var capture *TimelineCapture
	assert.Nil(t, capture.Timeline())

	tl := sampleTimeline()
	StoreTimelineCapture(capture, &tl)
}

func TestAttemptInfo_RoundTrip(t *testing.T) {
	info := AttemptInfo{Attempt: 3}
	ctx := WithAttemptInfo(context.Background(), info)

	got, ok := AttemptFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, 3, got.Attempt)

	_, ok = AttemptFromContext(context.Background())
	assert.False(t, ok)
}
