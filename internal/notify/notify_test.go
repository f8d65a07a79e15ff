package notify_test

import (
	"testing"
	"time"

	"github.com/veridash/veridash/internal/notify"
)

func TestNotifyAndAutoDismiss(t *testing.T) {
	n := notify.NewNotifier(notify.WithDuration(80 * time.Millisecond))

	n.Notify("saved", notify.KindSuccess)
	toast := n.Current()
	if toast == nil || toast.Message != "saved" || toast.Kind != notify.KindSuccess {
		t.Fatalf("Current() = %+v, want saved/success", toast)
	}

	time.Sleep(160 * time.Millisecond)
	if n.Current() != nil {
		t.Error("toast should auto-dismiss after its duration")
	}
}

func TestReplacementGetsFullWindow(t *testing.T) {
	n := notify.NewNotifier(notify.WithDuration(120 * time.Millisecond))

	n.Notify("A", notify.KindInfo)
	time.Sleep(80 * time.Millisecond)
	n.Notify("B", notify.KindInfo)

	// Past A's original deadline: B must still be visible because its
	// timer was started fresh, not inherited from A.
	time.Sleep(80 * time.Millisecond)
	toast := n.Current()
	if toast == nil || toast.Message != "B" {
		t.Fatalf("Current() = %+v, want B still visible", toast)
	}

	// Past B's own deadline the slot clears.
	time.Sleep(120 * time.Millisecond)
	if n.Current() != nil {
		t.Error("B should auto-dismiss after its own full window")
	}
}

func TestSingleSlot(t *testing.T) {
	n := notify.NewNotifier(notify.WithDuration(time.Minute))

	n.Notify("A", notify.KindInfo)
	n.Notify("B", notify.KindError)

	toast := n.Current()
	if toast == nil || toast.Message != "B" {
		t.Fatalf("Current() = %+v, want only B visible", toast)
	}
}

func TestDismiss(t *testing.T) {
	n := notify.NewNotifier(notify.WithDuration(time.Minute))

	n.Notify("A", notify.KindInfo)
	n.Dismiss()
	if n.Current() != nil {
		t.Error("Dismiss should clear the slot immediately")
	}

	// A dismissed toast's timer must not clear a later toast.
	n.Notify("B", notify.KindInfo)
	time.Sleep(20 * time.Millisecond)
	toast := n.Current()
	if toast == nil || toast.Message != "B" {
		t.Errorf("Current() = %+v, want B", toast)
	}
}
