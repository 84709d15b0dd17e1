// Package assets downloads the resources referenced by mirrored pages.
//
// The asset set can grow while it is being drained: every downloaded CSS
// file is scanned for url() references, which may register further assets
// (fonts, background images, imported sheets). Draining therefore works in
// rounds over snapshots of the pending set instead of iterating a mutating
// collection.
//
// Pages and assets share one filesystem namespace. When an asset's target
// path is already occupied by a page directory, the asset is renamed with an
// "_asset" suffix before the extension and the collision is recorded.
package assets
