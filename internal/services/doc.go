// Package services contains the resource clients mediating between the
// terminal client and its two external collaborators.
//
//   - [LibraryService] : the book-sharing REST backend (books + auth endpoints)
//   - [IdentityService] : the hosted identity provider (signup, password reset)
//
// Both are thin typed wrappers over net/http: one method per remote
// operation, context on every call, and the shared error taxonomy of
// [*shared.NetworkError] for transport failures and [*shared.APIError] for
// rejected requests. There is no caching or retry layer: every call is a
// fresh round trip, matching the pull-on-demand model of the client.
package services
