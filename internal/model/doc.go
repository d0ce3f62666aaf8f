// Package model defines the shopping-list item, its validation rules, and
// the two identifier spaces items move through.
//
// An item carries exactly one identifier at a time. Items created before the
// remote store has seen them use a local-space id (a "local-" prefixed UUID
// generated on this device). Once the remote store accepts the item, the
// local id is remapped to the server-assigned remote-space id. The remap
// happens exactly once in an item's lifetime.
package model
