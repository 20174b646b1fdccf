package parser

// Command represents one line typed during a battle
type Command struct {
	Roll    *RollCmd    `parser:"( @@"`
	Lock    *LockCmd    `parser:"| @@"`
	Unlock  *UnlockCmd  `parser:"| @@"`
	Use     *UseCmd     `parser:"| @@"`
	Pass    *PassCmd    `parser:"| @@"`
	Status  *StatusCmd  `parser:"| @@"`
	Actions *ActionsCmd `parser:"| @@"`
	Help    *HelpCmd    `parser:"| @@"`
	Start   *StartCmd   `parser:"| @@ )"`
}

// RollCmd re-rolls every unlocked die for stamina
type RollCmd struct {
	Keyword string `parser:"@(\"roll\"|\"reroll\")"`
}

// LockCmd locks dice by their 1-based position
type LockCmd struct {
	Keyword string `parser:"@\"lock\""`
	Dice    []int  `parser:"@Int ( \",\"? @Int )*"`
}

// UnlockCmd releases every die or the listed ones
type UnlockCmd struct {
	Keyword string `parser:"@\"unlock\""`
	All     bool   `parser:"( @\"all\""`
	Dice    []int  `parser:"| @Int ( \",\"? @Int )* )"`
}

// UseCmd confirms the turn with the named actions, e.g. "use block and strike"
type UseCmd struct {
	Keyword string   `parser:"@\"use\""`
	Actions []string `parser:"@Ident ( ( \"and\" | \",\" | \"+\" ) @Ident )*"`
}

// PassCmd confirms the turn without acting
type PassCmd struct {
	Keyword string `parser:"@\"pass\""`
}

// StatusCmd shows the battlefield
type StatusCmd struct {
	Keyword string `parser:"@\"status\""`
}

// ActionsCmd lists the actions the locked dice afford
type ActionsCmd struct {
	Keyword string `parser:"@\"actions\""`
}

// HelpCmd provides command guidance
type HelpCmd struct {
	Keyword string `parser:"@\"help\""`
	Topic   string `parser:"( @Keyword | @Ident )?"`
}

// StartCmd begins a new battle
type StartCmd struct {
	Keyword string `parser:"@\"start\""`
}
