package registry

// Builtin returns the catalog of software pre-installed on GitHub-hosted
// Ubuntu runner images that this tool knows how to remove. The paths and
// package names mirror the installer scripts in actions/runner-images;
// the Note field references the script a task undoes.
//
// Defaults: everything is removed unless a majority of workflows want it
// kept. Today that is only .NET (setup-dotnet and many build tools expect
// it), which must be opted in with --remove-dotnet.
//
// Tasks must stay disjoint — no package or path may appear in two tasks.
// New(Builtin()) enforces that at startup.
func Builtin() []Task {
	return []Task{
		{
			Name:               "android",
			Paths:              []string{"/usr/local/lib/android"},
			DefaultEnabled:     true,
			BackgroundEligible: true,
			Description:        "Android SDK and NDK",
			Note:               "images/ubuntu/scripts/build/install-android-sdk.sh",
		},
		{
			Name:               "dotnet",
			Paths:              []string{"/usr/share/dotnet", "/usr/local/bin/dotnet"},
			DefaultEnabled:     false,
			BackgroundEligible: true,
			Description:        ".NET SDKs and runtimes",
			Note:               "images/ubuntu/scripts/build/install-dotnetcore-sdk.sh",
		},
		{
			Name:               "haskell",
			Paths:              []string{"/opt/ghc", "/usr/local/.ghcup"},
			DefaultEnabled:     true,
			BackgroundEligible: true,
			Description:        "GHC and the ghcup toolchain",
			Note:               "images/ubuntu/scripts/build/install-haskell.sh",
		},
		{
			Name:               "codeql",
			Paths:              []string{"/opt/hostedtoolcache/CodeQL"},
			DefaultEnabled:     true,
			BackgroundEligible: true,
			Description:        "CodeQL analysis bundles",
			Note:               "images/ubuntu/scripts/build/install-codeql-bundle.sh",
		},
		{
			Name:           "chrome",
			Packages:       []string{"google-chrome-stable"},
			Paths:          []string{"/opt/google/chrome", "/usr/local/share/chromedriver-linux64"},
			DefaultEnabled: true,
			Description:    "Google Chrome and chromedriver",
			Note:           "images/ubuntu/scripts/build/install-google-chrome.sh",
		},
		{
			Name:           "edge",
			Packages:       []string{"microsoft-edge-stable"},
			Paths:          []string{"/opt/microsoft/msedge"},
			DefaultEnabled: true,
			Description:    "Microsoft Edge",
			Note:           "images/ubuntu/scripts/build/install-microsoft-edge.sh",
		},
		{
			Name:           "firefox",
			Packages:       []string{"firefox"},
			Paths:          []string{"/usr/lib/firefox"},
			DefaultEnabled: true,
			Description:    "Mozilla Firefox and geckodriver",
			Note:           "images/ubuntu/scripts/build/install-firefox.sh",
		},
		{
			Name:               "powershell",
			Packages:           []string{"powershell"},
			Paths:              []string{"/usr/local/share/powershell"},
			DefaultEnabled:     true,
			BackgroundEligible: true,
			Description:        "PowerShell and its module cache",
			Note:               "images/ubuntu/scripts/build/install-powershell.sh",
		},
		{
			Name:               "swift",
			Paths:              []string{"/usr/share/swift"},
			DefaultEnabled:     true,
			BackgroundEligible: true,
			Description:        "Swift toolchain",
			Note:               "images/ubuntu/scripts/build/install-swift.sh",
		},
		{
			Name:               "julia",
			Paths:              []string{"/usr/local/julia*"},
			DefaultEnabled:     true,
			BackgroundEligible: true,
			Description:        "Julia runtime",
			Note:               "images/ubuntu/scripts/build/install-julia.sh",
		},
		{
			Name:           "rustup",
			Paths:          []string{"/usr/share/rust", "/home/runner/.cargo", "/home/runner/.rustup"},
			DefaultEnabled: true,
			Description:    "Rust toolchain and cargo registry",
			Note:           "images/ubuntu/scripts/build/install-rust.sh",
		},
		{
			Name:           "miniconda",
			Paths:          []string{"/usr/share/miniconda"},
			DefaultEnabled: true,
			Description:    "Miniconda distribution",
			Note:           "images/ubuntu/scripts/build/install-miniconda.sh",
		},
		{
			Name:           "azure",
			Packages:       []string{"azure-cli"},
			Paths:          []string{"/opt/az", "/usr/share/az_*"},
			DefaultEnabled: true,
			Description:    "Azure CLI",
			Note:           "images/ubuntu/scripts/build/install-azure-cli.sh",
		},
		{
			Name:           "gcloud",
			Packages:       []string{"google-cloud-cli"},
			Paths:          []string{"/usr/lib/google-cloud-sdk"},
			DefaultEnabled: true,
			Description:    "Google Cloud CLI",
			Note:           "images/ubuntu/scripts/build/install-google-cloud-cli.sh",
		},
		{
			Name:           "aws",
			Paths:          []string{"/usr/local/aws-cli", "/usr/local/aws-sam-cli"},
			DefaultEnabled: true,
			Description:    "AWS CLI and SAM CLI",
			Note:           "images/ubuntu/scripts/build/install-aws-tools.sh",
		},
		{
			Name:           "heroku",
			Packages:       []string{"heroku"},
			Paths:          []string{"/usr/local/lib/heroku"},
			DefaultEnabled: true,
			Description:    "Heroku CLI",
			Note:           "images/ubuntu/scripts/build/install-heroku.sh",
		},
		{
			Name:           "mysql",
			Packages:       []string{"mysql-server-core-8.0", "mysql-client-core-8.0"},
			Paths:          []string{"/var/lib/mysql"},
			DefaultEnabled: true,
			Description:    "MySQL server and data directory",
			Note:           "images/ubuntu/scripts/build/install-mysql.sh",
		},
		{
			Name:           "mono",
			Packages:       []string{"mono-complete"},
			Paths:          []string{"/usr/lib/mono"},
			DefaultEnabled: true,
			Description:    "Mono runtime",
			Note:           "images/ubuntu/scripts/build/install-mono.sh",
		},
		{
			Name:           "snap-cache",
			Paths:          []string{"/var/lib/snapd/cache"},
			DefaultEnabled: true,
			Description:    "Cached snap downloads",
		},
	}
}
