package planning

import (
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
)

// catalogEntry maps one service signature to a fixed ordered
// sub-sequence of attack steps.
type catalogEntry struct {
	name  string
	ports []int
	steps []Step
}

// serviceCatalog is the static rule base behind the deterministic
// fallback planner. Every step's risk components are preset in [1,10],
// so the derived riskScore invariant holds by construction. Exploitation
// steps always list their reconnaissance step as prerequisite.
var serviceCatalog = []catalogEntry{
	{
		name:  "web",
		ports: []int{80, 443, 8080, 8443},
		steps: []Step{
			{
				Phase:           types.PhaseReconnaissance,
				MitreTactic:     "TA0043",
				MitreTechnique:  "T1595",
				TechniqueName:   "Web Application Reconnaissance",
				Description:     "Map the exposed web surface: endpoints, technologies, virtual hosts, TLS configuration.",
				Exploitability:  7,
				Impact:          4,
				Stealth:         8,
				ToolsRequired:   []string{"nmap", "httpx", "whatweb"},
				ToolChain:       []string{"nmap", "httpx"},
				FallbackTools:   []string{"curl"},
				ExpectedOutcome: "Inventory of reachable web endpoints and fingerprinted technologies",
			},
			{
				Phase:           types.PhaseExploitation,
				MitreTactic:     "TA0001",
				MitreTechnique:  "T1190",
				TechniqueName:   "Web Application Exploitation",
				Description:     "Probe the mapped surface for injectable parameters, known CVEs, and misconfigurations.",
				Exploitability:  8,
				Impact:          9,
				Stealth:         6,
				ToolsRequired:   []string{"nuclei", "sqlmap", "burpsuite"},
				ToolChain:       []string{"nuclei", "sqlmap"},
				FallbackTools:   []string{"nikto"},
				Prerequisites:   []string{"Web Application Reconnaissance"},
				ExpectedOutcome: "Confirmed exploitable weakness in a public-facing application",
			},
		},
	},
	{
		name:  "ssh",
		ports: []int{22},
		steps: []Step{
			{
				Phase:           types.PhaseReconnaissance,
				MitreTactic:     "TA0007",
				MitreTechnique:  "T1046",
				TechniqueName:   "SSH Service Enumeration",
				Description:     "Identify SSH version, supported algorithms, and authentication methods.",
				Exploitability:  6,
				Impact:          4,
				Stealth:         8,
				ToolsRequired:   []string{"nmap", "ssh-audit"},
				ToolChain:       []string{"nmap", "ssh-audit"},
				FallbackTools:   []string{"netcat"},
				ExpectedOutcome: "SSH fingerprint with weak algorithm and auth method inventory",
			},
			{
				Phase:           types.PhaseExploitation,
				MitreTactic:     "TA0006",
				MitreTechnique:  "T1110",
				TechniqueName:   "SSH Credential Brute Force",
				Description:     "Attempt credential guessing against the enumerated SSH service with rate-aware wordlists.",
				Exploitability:  6,
				Impact:          7,
				Stealth:         3,
				ToolsRequired:   []string{"hydra", "medusa"},
				ToolChain:       []string{"hydra"},
				FallbackTools:   []string{"ncrack"},
				Prerequisites:   []string{"SSH Service Enumeration"},
				ExpectedOutcome: "Valid SSH credentials or confirmation of lockout policy",
			},
		},
	},
	{
		name:  "ftp",
		ports: []int{20, 21},
		steps: []Step{
			{
				Phase:           types.PhaseReconnaissance,
				MitreTactic:     "TA0007",
				MitreTechnique:  "T1046",
				TechniqueName:   "FTP Service Enumeration",
				Description:     "Fingerprint the FTP daemon and list its advertised capabilities.",
				Exploitability:  5,
				Impact:          4,
				Stealth:         8,
				ToolsRequired:   []string{"nmap", "ftp"},
				ToolChain:       []string{"nmap"},
				FallbackTools:   []string{"netcat"},
				ExpectedOutcome: "FTP banner and capability listing",
			},
			{
				Phase:           types.PhaseExploitation,
				MitreTactic:     "TA0001",
				MitreTechnique:  "T1078",
				TechniqueName:   "FTP Anonymous Access Check",
				Description:     "Test anonymous and default credential access against the enumerated FTP service.",
				Exploitability:  7,
				Impact:          6,
				Stealth:         5,
				ToolsRequired:   []string{"ftp", "hydra"},
				ToolChain:       []string{"ftp"},
				FallbackTools:   []string{"curl"},
				Prerequisites:   []string{"FTP Service Enumeration"},
				ExpectedOutcome: "Anonymous read or write access to the FTP tree",
			},
		},
	},
	{
		name:  "smb",
		ports: []int{139, 445},
		steps: []Step{
			{
				Phase:           types.PhaseReconnaissance,
				MitreTactic:     "TA0007",
				MitreTechnique:  "T1135",
				TechniqueName:   "SMB Share Enumeration",
				Description:     "Enumerate SMB shares, null sessions, and signing configuration.",
				Exploitability:  6,
				Impact:          5,
				Stealth:         7,
				ToolsRequired:   []string{"smbclient", "enum4linux", "nmap"},
				ToolChain:       []string{"nmap", "enum4linux"},
				FallbackTools:   []string{"smbmap"},
				ExpectedOutcome: "Accessible share listing and SMB dialect inventory",
			},
			{
				Phase:           types.PhaseExploitation,
				MitreTactic:     "TA0008",
				MitreTechnique:  "T1210",
				TechniqueName:   "SMB Remote Exploitation",
				Description:     "Attempt exploitation of known SMB vulnerabilities against the enumerated endpoint.",
				Exploitability:  8,
				Impact:          9,
				Stealth:         6,
				ToolsRequired:   []string{"metasploit", "impacket"},
				ToolChain:       []string{"metasploit"},
				FallbackTools:   []string{"crackmapexec"},
				Prerequisites:   []string{"SMB Share Enumeration"},
				ExpectedOutcome: "Remote code execution or authenticated SMB session",
			},
		},
	},
}

// defaultStep is emitted when no catalog entry matches a scan.
var defaultStep = Step{
	Phase:           types.PhaseReconnaissance,
	MitreTactic:     "TA0043",
	MitreTechnique:  "T1595",
	TechniqueName:   "Network Reconnaissance",
	Description:     "Broad reconnaissance of the target: port sweep, service identification, OS fingerprinting.",
	Exploitability:  5,
	Impact:          3,
	Stealth:         8,
	ToolsRequired:   []string{"nmap", "masscan"},
	ToolChain:       []string{"nmap"},
	FallbackTools:   []string{"netcat"},
	ExpectedOutcome: "Baseline service and port inventory for follow-on planning",
}
