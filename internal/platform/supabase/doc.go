// Package supabase is the client for the External Service: its auth API
// (identities and sessions) and its REST data API (tables). A Client is bound
// to one credential; the application holds a privileged and an unprivileged one.
//
// The package also provides store implementations over the data API:
// RESTBookStore, RESTLibraryStore, RESTProfileStore and RESTUserStore.
package supabase
