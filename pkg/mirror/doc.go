/*
The mirror package implements gddload's synchronization engine. It mirrors a
remote file or folder tree into a local directory in two depth-first passes
over the same in-memory tree:

1) Scan -- discovers the remote tree page by page, populating one Node per
   remote entry. Files that already exist locally are prechecked against the
   remote SHA-256 digest when checking is enabled.
2) Download -- materializes the tree to disk, applying the download policy
   (force/overwrite/already-checked), the bounded retry budget, and the
   postcheck.

Every status or progress write anywhere in the tree synchronously repaints
the whole tree through the renderer, so the display always reflects the
latest mutation before the engine proceeds.

Folder sizes and progress are never cached: they're recomputed from the
children on every read, which keeps the running totals correct while a scan
is still discovering children.
*/
package mirror
