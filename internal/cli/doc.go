// Package cli is the interactive StarKeeper client.
//
// App wires the storage façade to a read-eval-print loop. Every command goes
// through the façade with the session's account id, so the same commands
// work against the local store (guest) and the remote store (signed in).
//
//	list [xp|recent|favorites]   dashboard, optionally filtered/sorted
//	show <id>                    one star with its gallery and XP history
//	add                          create a star (interactive)
//	edit <id>                    change a star (interactive)
//	xp <id> <amount> [note]      award XP
//	rmlog <id> <log id>          remove an XP event
//	delete <id>                  delete a star
//	purge <id> [<id>...]         delete several stars
//	stats                        totals, top star and tiers
//	status                       account and backend in use
//	help, exit
package cli
