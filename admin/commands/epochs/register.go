package epochs

import (
	"github.com/droplets-system/epoch/admin"
	"github.com/droplets-system/epoch/admin/commands"
)

// Commands returns the admin commands operating on the engine, by name.
func Commands(engine Engine) map[string]commands.AdminCommand {
	return map[string]commands.AdminCommand{
		"add-oracle":    NewAddOracleCommand(engine),
		"remove-oracle": NewRemoveOracleCommand(engine),
		"init":          NewInitCommand(engine),
		"set-enabled":   NewSetEnabledCommand(engine),
		"set-duration":  NewSetDurationCommand(engine),
		"advance-epoch": NewAdvanceEpochCommand(engine),
		"wipe":          NewWipeCommand(engine),
		"read-epoch":    NewReadEpochCommand(engine),
		"read-state":    NewReadStateCommand(engine),
	}
}

// Register adds every command in cmds to the bootstrapper.
func Register(bootstrapper *admin.CommandRunnerBootstrapper, cmds map[string]commands.AdminCommand) {
	for name, cmd := range cmds {
		bootstrapper.RegisterHandler(name, cmd.Handler)
		bootstrapper.RegisterValidator(name, cmd.Validator)
	}
}
