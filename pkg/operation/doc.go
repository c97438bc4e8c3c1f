/*
Package operation implements the core copy pipeline for sortd.

	+-------------+
	|   Runner    |
	| (Scheduler) |
	+------+------+
	       |
	+------+------+
	|   Copier    |
	| (Classify + |
	|  Name+Copy) |
	+-------------+

🎯 Purpose:
- Fans copy operations out over the enumerated file set under a concurrency bound
- Classifies each file and streams it into its per-extension directory
- Resolves destination name collisions with a counter suffix

🔄 Flow:
1. Runner acquires a semaphore slot per file
2. CopyFile classifies the source and ensures the extension directory exists
3. The target name is resolved against the directory and created exclusively
4. Bytes stream across in fixed-size chunks; the Outcome records the result

⚡ Key Responsibilities:
- Precise enforcement of the in-flight bound
- One Outcome per input file, regardless of individual failures
- Collision-safe naming, closed against concurrent same-name races

📝 Design Philosophy:
A failed file is data, not an exception: every fault is captured in its
Outcome and the batch always runs to completion. The source tree is never
written to. A mid-stream failure can leave a truncated target behind; that
is a documented gap, not something the copier rolls back.
*/
package operation
