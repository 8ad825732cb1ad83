/*
Package file binds documents to files on disk.

A Document is an in-memory buffer loaded from a file. Save writes it back
atomically. Sync folds an external rewrite of the file (another editor, a git
checkout) into the buffer as a single edit batch computed with a character
diff, so spans outside the changed ranges keep their identity and the
attached engine sees ordinary edits.

Watcher reports debounced file changes through fsnotify. It watches the parent
directory of every file, since many editors save by renaming a temporary file
over the original.
*/
package file
