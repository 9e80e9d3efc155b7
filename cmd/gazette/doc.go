// Command gazette maintains a multi-file JSON news dataset and its generated
// illustrations: it resolves duplicate record identifiers, scrubs citation
// markers, and fills in missing images through an external generation
// backend.
package main
