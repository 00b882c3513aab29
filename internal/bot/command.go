package bot

import "strings"

// commandKind enumerates the chatbot commands. Dispatch is an
// exhaustive switch over this enum rather than a string-keyed table so
// the compiler checks coverage.
type commandKind int

const (
	cmdUnknown commandKind = iota
	cmdDaftar
	cmdHelp
	cmdList
	cmdDetail
	cmdProses
	cmdSelesai
	cmdBatal
	cmdBroadcast
)

func (k commandKind) String() string {
	switch k {
	case cmdDaftar:
		return "daftar"
	case cmdHelp:
		return "help"
	case cmdList:
		return "list"
	case cmdDetail:
		return "detail"
	case cmdProses:
		return "proses"
	case cmdSelesai:
		return "selesai"
	case cmdBatal:
		return "batal"
	case cmdBroadcast:
		return "broadcast"
	}
	return "unknown"
}

// parseCommand maps the first message token (case-insensitive) to a
// command kind, folding the aliases the bot has always accepted.
func parseCommand(token string) commandKind {
	switch strings.ToLower(token) {
	case "!daftar":
		return cmdDaftar
	case "!help", "!menu", "!menuwa":
		return cmdHelp
	case "!list":
		return cmdList
	case "!detail", "!status":
		return cmdDetail
	case "!proses":
		return cmdProses
	case "!selesai":
		return cmdSelesai
	case "!batal":
		return cmdBatal
	case "!bc", "!broadcast":
		return cmdBroadcast
	}
	return cmdUnknown
}
