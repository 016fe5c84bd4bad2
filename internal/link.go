// Package internal implements the dependency-tracking engine: the linked
// producer/consumer graph, the height-ordered scheduler, and the ambient
// tracking context. It has no public API of its own; the root beacon
// package wraps every exported type around these primitives.
package internal

// Link is an intrusive doubly-linked record connecting one Producer (the
// dependency) to one Computed (the subscriber). It lives simultaneously in
// two circular lists: the producer's subscriber list (subsHead) and the
// consumer's dependency list (depsHead). Removing a Link is O(1) because
// both lists are stored as pointers on the Link itself, never as a scan.
type Link struct {
	dep *Producer
	sub *Computed

	prevDep *Link
	nextDep *Link

	prevSub *Link
	nextSub *Link
}
