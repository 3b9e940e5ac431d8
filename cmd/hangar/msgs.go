package main

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort      = "A mod manager for your flight simulator"
	MsgRootLong       = "hangar installs, enables, disables and removes flight simulator mods.\nDisabled mods are kept in a local cache and enabled ones are linked into\nthe simulator's Community folder, so toggling a mod never recopies data."
	MsgInstallShort   = "Install mods from an archive or folder"
	MsgInstallLong    = "Install extracts the given archive (zip, 7z or rar), finds every mod\nfolder inside it and installs each one. A plain folder is installed as-is.\nFreshly installed mods are enabled immediately."
	MsgListShort      = "List all managed mods"
	MsgEnableShort    = "Enable a disabled mod"
	MsgDisableShort   = "Disable an enabled mod"
	MsgUninstallShort = "Remove a mod permanently"
	MsgBackupShort    = "Archive the Community folder into a zip file"
	MsgVersionShort   = "Print version information"

	// Status messages
	MsgInstalled   = "installed %s"
	MsgEnabled     = "enabled %s"
	MsgDisabled    = "disabled %s"
	MsgUninstalled = "uninstalled %s"
	MsgBackedUp    = "backup written to %s"
	MsgGameVersion = "simulator version: %s"

	// Flag descriptions
	MsgFlagVerbose      = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat       = "Output format: auto, term, text or json"
	MsgFlagSimPackages  = "Simulator packages directory (overrides detection)"
	MsgFlagTimeout      = "Give up waiting after this duration (the operation itself keeps running)"
	MsgFlagDeleteSource = "Delete the source folder after installing from it"
)
