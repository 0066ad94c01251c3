// Package event provides the synchronous multicast primitive that spyglass
// builds its notification paths on.
//
// A Stream is a list of listeners invoked in registration order on the
// calling goroutine. Dispatch uses snapshot semantics: listeners added or
// removed while a notification is in flight do not affect that notification.
// Listener failures are isolated per listener, so one failing listener never
// prevents delivery to the listeners registered after it.
//
// Streams are not safe for concurrent use. All registration and dispatch for
// a given stream must happen on one goroutine; this matches the cooperative
// single-threaded model the rest of spyglass assumes.
package event
