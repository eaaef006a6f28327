// Package httpclienttest provides test doubles for the dispatcher: a
// scripted Transport, a Clock that records waits, and request bodies that
// count Close calls.
package httpclienttest
