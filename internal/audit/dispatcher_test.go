package audit

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDispatcher_DeliversEvents(t *testing.T) {
	var (
		mu  sync.Mutex
		got []string
	)
	d := NewDispatcher(WriterFunc(func(ev Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, ev.Action)
		return nil
	}), zap.NewNop())

	d.Dispatch(Event{CompanyID: 1, Action: "reservation_created"})
	d.Dispatch(Event{CompanyID: 1, Action: "reservation_cancelled"})
	d.Close()

	assert.Equal(t, []string{"reservation_created", "reservation_cancelled"}, got)
}

func TestDispatcher_WriteErrorsDoNotStopWorker(t *testing.T) {
	calls := 0
	d := NewDispatcher(WriterFunc(func(ev Event) error {
		calls++
		return errors.New("db down")
	}), zap.NewNop())

	d.Dispatch(Event{Action: "a"})
	d.Dispatch(Event{Action: "b"})
	d.Close()
	d.Close()

	assert.Equal(t, 2, calls)
}
