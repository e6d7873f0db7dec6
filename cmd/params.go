package cmd

var (
	workDir    string
	category   string
	useGitRoot bool
	debugMode  bool

	showAllConfigs bool

	treeDepth   int
	showHidden  bool
	noFiles     bool
	showStats   bool
	useMarkdown bool

	useGitIgnore bool

	mcpTransport string
	mcpPort      string
)
