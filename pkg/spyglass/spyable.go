package spyglass

import "github.com/randalmurphal/spyglass/pkg/spyglass/event"

// Mutation announces that one attribute of one subject changed. It carries no
// value: listeners that need the new value resolve it through the subject's
// Resolver when they handle the notification.
type Mutation struct {
	Subject   Subject
	Attribute string
}

// Spyable is the capability a subject implements to support being spied on.
//
// NotifyMutation is intended to be called from inside a property setter,
// immediately after the underlying field is updated, so that listeners
// resolving the value see the post-mutation state.
type Spyable interface {
	Subject

	// NotifyMutation fires the subject's mutation stream for attribute.
	NotifyMutation(attribute string)

	// Mutations exposes the raw mutation stream for use beyond the default
	// spy binding.
	Mutations() *event.Stream[Mutation]
}

// Broadcaster provides the mutation-stream plumbing for Spyable subjects.
// Embed it and call Bind with the outer value during construction:
//
//	type Ball struct {
//		spyglass.Broadcaster
//		x float64
//	}
//
//	func NewBall() *Ball {
//		b := &Ball{}
//		b.Bind(b)
//		return b
//	}
//
//	func (b *Ball) SetX(v float64) {
//		b.x = v
//		b.NotifyMutation("x")
//	}
//
// Broadcaster is not safe for concurrent use, matching the rest of spyglass.
type Broadcaster struct {
	self   Subject
	stream *event.Stream[Mutation]
}

// Bind records the outer subject so notifications carry its identity.
// Must be called once before NotifyMutation.
func (b *Broadcaster) Bind(self Subject) {
	b.self = self
}

// Mutations returns the subject's mutation stream, creating it on first use.
func (b *Broadcaster) Mutations() *event.Stream[Mutation] {
	if b.stream == nil {
		b.stream = event.NewStream[Mutation]()
	}
	return b.stream
}

// NotifyMutation fires the mutation stream for attribute.
// Panics if Bind was never called; an unbound broadcaster would emit
// notifications with no subject identity, which no listener can act on.
func (b *Broadcaster) NotifyMutation(attribute string) {
	if b.self == nil {
		panic("spyglass: Broadcaster.Bind must be called before NotifyMutation")
	}
	b.Mutations().Notify(Mutation{Subject: b.self, Attribute: attribute})
}
