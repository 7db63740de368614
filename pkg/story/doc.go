/*
Package story loads the story graph from its document.

The document is JSON or YAML with a title, an optional start_scene and a scenes
mapping. Loading fails soft: any problem yields an empty story together with a
*domain.StoryLoadError, so a broken document degrades the service instead of
aborting it.
*/
package story
