// Package compliance flags regulatory-risk wording in product copy before it is
// submitted for analysis.
//
// The check is a client-side heuristic: a fixed list of risky terms matched as
// case-insensitive substrings of the product name, promise, benefits and
// mechanism. It is independent of the backend compliance block attached to the
// strategic analysis, although Assess mirrors the backend's scoring so both can
// be displayed side by side.
package compliance
