// Package models defines the client-side data model for the book-sharing service.
//
// Three categories of types:
//
//  1. Remote resources: [Book] as the backend serves it. A book in a listing is a
//     partial projection; the detail view fetches the full record separately, and
//     the two representations are never assumed field-identical.
//  2. View state: [ListingPage], one server-paginated window plus the client-side
//     filter query. Filtering is pure and narrows only the fetched page.
//  3. Credentials and forms: [Credential] with the single logged-in predicate
//     [Credential.Valid], and the tagged form records ([BookForm], [LoginForm],
//     [RegisterForm]) whose Validate methods return a [ValidationError] field map.
package models
