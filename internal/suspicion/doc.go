// Package suspicion detects title matches that parse as a volume 1 but
// probably belong to a differently-named sub-work: free text between the
// series name and the volume marker, or high-risk edition keywords after
// it. The heuristic deliberately trades false positives (manual review of
// legitimate volume 1s) for near-zero false negatives, because a wrongly
// auto-confirmed edition silently corrupts the public catalog while an
// over-flagged one only costs review labor.
package suspicion
