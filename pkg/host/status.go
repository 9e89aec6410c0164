package host

import "time"

// Status is a point-in-time view of the host for the dashboard.
type Status struct {
	Mode     Mode    `json:"mode"`
	App      string  `json:"app,omitempty"`
	RunID    string  `json:"run_id,omitempty"`
	Passive  bool    `json:"passive"`
	Auto     bool    `json:"auto"`
	Selected int     `json:"selected"`
	Progress float64 `json:"progress"`
	Offset   int     `json:"offset"`

	Subjects    int  `json:"subjects"`
	PrimaryID   *int `json:"primary_id,omitempty"`
	SecondaryID *int `json:"secondary_id,omitempty"`

	Pointer PointerStatus `json:"pointer"`

	NoSubjectSeconds float64 `json:"no_subject_seconds"`
	HoldSeconds      float64 `json:"hold_seconds"`
	RunSeconds       float64 `json:"run_seconds"`
	StartFailures    int     `json:"start_failures"`
	LastError        string  `json:"last_error,omitempty"`
}

// PointerStatus is the cursor as last drawn.
type PointerStatus struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Visible bool    `json:"visible"`
}

// Status returns the status as of the last frame.
func (h *Host) Status() Status {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status
}

func (h *Host) publish() {
	sel := h.engine.State()
	ptr := h.smoother.Pointer()
	s := Status{
		Mode:     h.mode,
		Selected: sel.Selected,
		Progress: sel.Progress,
		Offset:   h.engine.Offset(),
		Subjects: h.resolver.Count(),
		Pointer:  PointerStatus{X: ptr.Position.X, Y: ptr.Position.Y, Visible: ptr.Visible},

		NoSubjectSeconds: h.noSubject.Seconds(),
		HoldSeconds:      h.hold.Seconds(),
		StartFailures:    h.startFailures,
	}
	if b := h.resolver.Primary(); b != nil {
		id := b.TrackingID
		s.PrimaryID = &id
	}
	if b := h.resolver.Secondary(); b != nil {
		id := b.TrackingID
		s.SecondaryID = &id
	}
	if h.running != nil {
		d := h.running.Descriptor()
		s.App = d.Name
		s.RunID = h.running.ID().String()
		s.Passive = d.Passive
		s.Auto = h.auto
		s.RunSeconds = time.Since(h.running.Started()).Seconds()
	}
	if h.lastErr != nil {
		s.LastError = h.lastErr.Error()
	}

	h.mu.Lock()
	h.status = s
	h.mu.Unlock()
}
