package engine

import (
	"github.com/mqmap/overlay/internal/filter"
	"github.com/mqmap/overlay/internal/scene"
)

// attach links the engine chains in front of the host's. The host head is
// saved before the attached flag is set, and the flag is set before the
// head is rewritten, so detach can always tell what to restore.
func (e *Engine) attach() {
	labels, lines := e.host.Heads()
	if labels == nil || lines == nil {
		return
	}
	sc := e.scene

	if !sc.LabelChain.Empty() {
		e.savedLabelHead = *labels
		e.labelsAttached = true
		if e.filters.IsEnabled(filter.NormalLabels) {
			_ = sc.Labels.SetNext(sc.LabelChain.Tail, *labels)
		}
		*labels = sc.LabelChain.Head
	}

	if !sc.LineChain.Empty() {
		e.linesAttached = true
		_ = sc.Lines.SetNext(sc.LineChain.Tail, *lines)
		*lines = sc.LineChain.Head
	}
}

// detach undoes attach. Without a completed attach it does nothing.
func (e *Engine) detach() {
	labels, lines := e.host.Heads()
	if labels == nil || lines == nil {
		return
	}
	sc := e.scene

	if e.labelsAttached && !sc.LabelChain.Empty() {
		*labels = e.savedLabelHead
		_ = sc.Labels.SetNext(sc.LabelChain.Tail, scene.Nil)
	}
	e.labelsAttached = false

	if e.linesAttached && !sc.LineChain.Empty() {
		*lines = sc.Lines.Next(sc.LineChain.Tail)
		_ = sc.Lines.SetNext(sc.LineChain.Tail, scene.Nil)
	}
	e.linesAttached = false
}

// Attached reports whether either chain is currently spliced.
func (e *Engine) Attached() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.labelsAttached || e.linesAttached
}
