package cli

const (
	FlagTypeBool        FlagType = "bool"
	FlagTypeDuration    FlagType = "duration"
	FlagTypeInteger     FlagType = "integer"
	FlagTypeString      FlagType = "string"
	FlagTypeStringSlice FlagType = "stringslice"
)

const Logo = "" +
	"  _            _         _    \n" +
	" | |_  _ _  __| |___ ___| |__ \n" +
	" | ' \\| '_|/ _` / -_|_-<| / / \n" +
	" |_||_|_|  \\__,_\\___/__/|_\\_\\ \n"
