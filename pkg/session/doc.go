/*
Package session keeps one engine per open document.

Hosts that serve several documents (the file watcher, the HTTP status server)
share engines through a Manager. Engines are created lazily on first Acquire,
reference counted, and closed when the last holder releases them. Work on a
document is serialized through WithDocument, since an engine expects its
document to be edited from one goroutine at a time.
*/
package session
