package events

import (
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestTaskEvent_Marshal(t *testing.T) {
	id := uuid.MustParse("0191b2c4-3d5e-7f80-9a1b-2c3d4e5f6071")
	ts := strfmt.DateTime(time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC))

	t.Run("full event", func(t *testing.T) {
		evt := TaskEvent{
			Kind:      KindDone,
			TaskID:    id,
			Executor:  "billing",
			State:     StateFailed,
			Failure:   "boom",
			Timestamp: ts,
			Meta:      gjson.Parse(`{"attempt":3}`),
		}

		data, err := evt.MarshalJSON()
		require.NoError(t, err)

		assert.Equal(t, "done", gjson.GetBytes(data, "type").String())
		assert.Equal(t, id.String(), gjson.GetBytes(data, "task_id").String())
		assert.Equal(t, "billing", gjson.GetBytes(data, "executor").String())
		assert.Equal(t, "failed", gjson.GetBytes(data, "state").String())
		assert.Equal(t, "boom", gjson.GetBytes(data, "failure").String())
		assert.EqualValues(t, 3, gjson.GetBytes(data, "meta.attempt").Int())
	})

	t.Run("optional fields omitted", func(t *testing.T) {
		evt := TaskEvent{Kind: KindRunning, TaskID: id, State: StateRunning}

		data, err := evt.MarshalJSON()
		require.NoError(t, err)

		assert.False(t, gjson.GetBytes(data, "executor").Exists())
		assert.False(t, gjson.GetBytes(data, "failure").Exists())
		assert.False(t, gjson.GetBytes(data, "timestamp").Exists())
		assert.False(t, gjson.GetBytes(data, "meta").Exists())
	})

	t.Run("unknown kind", func(t *testing.T) {
		evt := TaskEvent{Kind: Kind("bogus"), TaskID: id}
		_, err := evt.MarshalJSON()
		require.Error(t, err)
	})
}

func TestTaskEvent_Unmarshal(t *testing.T) {
	id := uuid.MustParse("0191b2c4-3d5e-7f80-9a1b-2c3d4e5f6071")

	t.Run("round trip", func(t *testing.T) {
		in := TaskEvent{
			Kind:      KindAborted,
			TaskID:    id,
			Executor:  "billing",
			State:     StateAborted,
			Failure:   "interrupted",
			Timestamp: strfmt.DateTime(time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)),
		}
		data, err := in.MarshalJSON()
		require.NoError(t, err)

		var out TaskEvent
		require.NoError(t, out.UnmarshalJSON(data))
		assert.Equal(t, in.Kind, out.Kind)
		assert.Equal(t, in.TaskID, out.TaskID)
		assert.Equal(t, in.Executor, out.Executor)
		assert.Equal(t, in.State, out.State)
		assert.Equal(t, in.Failure, out.Failure)
		assert.True(t, time.Time(in.Timestamp).Equal(time.Time(out.Timestamp)))
	})

	t.Run("invalid json", func(t *testing.T) {
		var evt TaskEvent
		require.Error(t, evt.UnmarshalJSON([]byte(`{not json`)))
	})

	t.Run("missing type", func(t *testing.T) {
		var evt TaskEvent
		err := evt.UnmarshalJSON([]byte(`{"task_id":"` + id.String() + `","state":"running"}`))
		require.ErrorContains(t, err, "type")
	})

	t.Run("unknown kind", func(t *testing.T) {
		var evt TaskEvent
		err := evt.UnmarshalJSON([]byte(`{"type":"bogus","task_id":"` + id.String() + `","state":"running"}`))
		require.ErrorContains(t, err, "unknown event kind")
	})

	t.Run("missing task id", func(t *testing.T) {
		var evt TaskEvent
		err := evt.UnmarshalJSON([]byte(`{"type":"running","state":"running"}`))
		require.ErrorContains(t, err, "task_id")
	})

	t.Run("meta preserved raw", func(t *testing.T) {
		var evt TaskEvent
		raw := `{"type":"done","task_id":"` + id.String() + `","state":"successful","meta":{"shard":7}}`
		require.NoError(t, evt.UnmarshalJSON([]byte(raw)))
		assert.EqualValues(t, 7, evt.Meta.Get("shard").Int())
	})
}

func TestTaskState(t *testing.T) {
	assert.False(t, StateSubmitted.Terminal())
	assert.False(t, StateQueued.Terminal())
	assert.False(t, StateStarting.Terminal())
	assert.False(t, StateRunning.Terminal())
	assert.True(t, StateSuccessful.Terminal())
	assert.True(t, StateFailed.Terminal())
	assert.True(t, StateAborted.Terminal())

	for _, s := range []TaskState{
		StateSubmitted, StateQueued, StateStarting, StateRunning,
		StateSuccessful, StateFailed, StateAborted,
	} {
		text, err := s.MarshalText()
		require.NoError(t, err)
		var back TaskState
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, s, back)
	}

	var s TaskState
	require.Error(t, s.UnmarshalText([]byte("limbo")))
}
