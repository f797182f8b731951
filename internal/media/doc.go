// Package media checks files before they are uploaded as creative references.
//
// Inspect classifies a file as image or video from its content, applies the
// backend size limits locally and lists the EXIF metadata of images that
// would leak the location, device or author of a photo.
package media
