// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI renders the catalog as a list of track cards and supports:
//  1. [BrowseView] : search, tag filtering, playback and deletion
//  2. [PublishView] : the publish dialog (title, artist, tags, license, file, authorization)
//  3. [ConfirmClearView] : explicit confirmation before clearing the whole catalog
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg
// union type. Publish progress flows through a channel from [tasks.Catalog.Publish]; the dialog blocks resubmission
// until the result arrives.
package ui
