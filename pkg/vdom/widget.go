package vdom

import (
	"reflect"

	"github.com/vango-dev/vpatch/pkg/host"
)

// Widget is an externally managed unit with its own lifecycle. The differ
// never looks inside a widget; the patch engine calls Init, Update and
// Destroy on it.
//
// Kind must return KindWidget.
type Widget interface {
	VNode

	// WidgetName returns the declared widget name, or "" when undeclared.
	WidgetName() string

	// Init creates the widget's host node.
	Init() (host.Node, error)

	// Update updates node in place, given the widget it supersedes. A nil
	// result keeps node.
	Update(previous Widget, node host.Node) (host.Node, error)

	// Destroy releases the widget's host node.
	Destroy(node host.Node)
}

// SameWidget reports whether b can update a in place. Two widgets are the
// same kind when they declare the same name or, when neither declares one,
// when they share a concrete type. Unnamed *FuncWidget values must also
// share their InitFunc code; closures from one function literal count as
// the same routine.
func SameWidget(a, b VNode) bool {
	wa, ok := a.(Widget)
	if !ok {
		return false
	}
	wb, ok := b.(Widget)
	if !ok {
		return false
	}
	if wa.WidgetName() != "" || wb.WidgetName() != "" {
		return wa.WidgetName() == wb.WidgetName()
	}
	if reflect.TypeOf(wa) != reflect.TypeOf(wb) {
		return false
	}
	if fa, ok := wa.(*FuncWidget); ok {
		return funcPointer(fa.InitFunc) == funcPointer(wb.(*FuncWidget).InitFunc)
	}
	return true
}

func funcPointer(fn func() (host.Node, error)) uintptr {
	if fn == nil {
		return 0
	}
	return reflect.ValueOf(fn).Pointer()
}

// FuncWidget is a Widget assembled from functions. Name identifies the kind;
// a non-empty Key lets the widget take part in keyed reordering.
type FuncWidget struct {
	Name        string
	Key         string
	InitFunc    func() (host.Node, error)
	UpdateFunc  func(previous Widget, node host.Node) (host.Node, error)
	DestroyFunc func(node host.Node)
}

// Kind implements VNode.
func (w *FuncWidget) Kind() Kind { return KindWidget }

// WidgetName implements Widget.
func (w *FuncWidget) WidgetName() string { return w.Name }

// Init implements Widget.
func (w *FuncWidget) Init() (host.Node, error) {
	if w.InitFunc == nil {
		return nil, nil
	}
	return w.InitFunc()
}

// Update implements Widget.
func (w *FuncWidget) Update(previous Widget, node host.Node) (host.Node, error) {
	if w.UpdateFunc == nil {
		return nil, nil
	}
	return w.UpdateFunc(previous, node)
}

// Destroy implements Widget.
func (w *FuncWidget) Destroy(node host.Node) {
	if w.DestroyFunc != nil {
		w.DestroyFunc(node)
	}
}
