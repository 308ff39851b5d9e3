// Package figma provides the node tree model and the resilient REST client
// for the Figma design-tool API.
//
// # Node Tree Model
//
// A design file is one recursive tree of [Node] values. Every node owns its
// children; insertion order is render order, so later siblings paint on top
// of earlier ones. Node, [Paint], and [Effect] are closed tagged variants
// selected by their Type field, which callers should switch over
// exhaustively. The model is pure data: it does not prune invisible nodes,
// so every consumer applies the Visible filter itself.
//
// # Resilient Client
//
// The Figma API enforces strict and sometimes undocumented per-account rate
// limits, as low as single-digit requests per month on minimal plan tiers.
// [Client] therefore treats the response cache as the primary data source:
// a fresh cache hit never touches the network, a stale entry is served
// whenever the API times out or rate-limits, and requests are strictly
// serialized with pacing delays between non-essential calls.
//
// Requests are classified as essential (the file/node fetch, image-fill URL
// resolution) or non-essential (icon exports, screenshots, composite
// renders). Essential failures surface as typed errors with remediation;
// non-essential failures degrade the output and are reported through the
// enrichment outcome rather than aborting the run.
package figma
