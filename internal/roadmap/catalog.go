package roadmap

import "time"

// Ranks is the static rank ladder, ordered by MinXP ascending.
var Ranks = []Rank{
	{ID: "novice", Title: "Script Kiddie", MinXP: 0, Color: "#64748B"},
	{ID: "apprentice", Title: "Code Monkey", MinXP: 1000, Color: "#10B981"},
	{ID: "journeyman", Title: "Full Stack Dev", MinXP: 3000, Color: "#0EA5E9"},
	{ID: "expert", Title: "Tech Lead", MinXP: 8000, Color: "#A855F7"},
	{ID: "master", Title: "SysAdmin Wizard", MinXP: 15000, Color: "#F59E0B"},
	{ID: "legend", Title: "10x Engineer", MinXP: 30000, Color: "#EF4444"},
}

// Badges is the static badge catalog.
var Badges = []Badge{
	{ID: "b_first_step", Title: "Hello World", Description: "Complete your first project.", Condition: CondProjectCount, Threshold: 1},
	{ID: "b_builder", Title: "Builder", Description: "Complete 3 projects.", Condition: CondProjectCount, Threshold: 3},
	{ID: "b_architect", Title: "Architect", Description: "Complete 10 projects.", Condition: CondProjectCount, Threshold: 10},
	{ID: "b_grinder", Title: "Grinder", Description: "Log 10 hours of focus.", Condition: CondHourCount, Threshold: 10},
	{ID: "b_master", Title: "Flow Master", Description: "Log 50 hours of focus.", Condition: CondHourCount, Threshold: 50},
	{ID: "b_net_eng", Title: "Net Admin", Description: "Complete 2 Network projects.", Condition: CondCategoryCount, Detail: "Network", Threshold: 2},
	{ID: "b_cloud_arch", Title: "Cloud Native", Description: "Complete 3 Cloud projects.", Condition: CondCategoryCount, Detail: "Cloud", Threshold: 3},
	{ID: "b_security", Title: "White Hat", Description: "Complete 2 Security projects.", Condition: CondCategoryCount, Detail: "Security", Threshold: 2},
	{ID: "b_py_snake", Title: "Snake Charmer", Description: "Use Python in 3 projects.", Condition: CondTechStack, Detail: "Python", Threshold: 3},
	{ID: "b_k8s_captain", Title: "Helmsman", Description: "Deploy 2 Kubernetes projects.", Condition: CondTechStack, Detail: "Kubernetes", Threshold: 2},
}

// BadgeByID looks a badge up in the catalog.
func BadgeByID(id string) (Badge, bool) {
	for _, b := range Badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

// StarterRoadmap returns the out-of-the-box skill tree a fresh database
// is seeded with: a network-to-cloud-to-capstone progression. The one
// pre-completed node has no CompletedAt stamp since it never transitioned
// inside the app.
func StarterRoadmap(now time.Time) []Project {
	base := Project{
		Priority:   PriorityMedium,
		Complexity: 1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	mk := func(id, title string, level int, status Status, category string, x, y float64, deps []string, desc string, tech []string, complexity int) Project {
		p := base
		p.ID = id
		p.Title = title
		p.Level = level
		p.Status = status
		p.Category = category
		p.Position = Coordinates{X: x, Y: y}
		p.Dependencies = deps
		p.Description = desc
		p.TechStack = tech
		p.Complexity = complexity
		return p
	}

	projects := []Project{
		mk("p1_1", "Network Packet Analyzer", 1, StatusDone, "Network", 100, 100, nil,
			"Create a Wireshark-lite in Python using raw sockets.", []string{"Python", "Scapy"}, 2),
		mk("p1_2", "Custom DHCP Server", 1, StatusUnlocked, "Network", 350, 100, []string{"p1_1"},
			"Understand low-level IP assignment and DORA process.", []string{"Python", "Sockets"}, 3),
		mk("p1_3", "Subnet Calculator", 1, StatusLocked, "Network", 600, 100, []string{"p1_2"},
			"VLSM and IPAM calculation tool.", []string{"Flask", "Bootstrap"}, 1),
		mk("p2_1", "Homelab Infra", 2, StatusLocked, "Infra", 100, 300, []string{"p1_1"},
			"The heart of your personal infrastructure.", []string{"Docker", "Ansible", "Pi"}, 3),
		mk("p2_2", "AWS 3-Tier App", 2, StatusLocked, "Cloud", 350, 300, []string{"p2_1"},
			"Clean Cloud deployment via Terraform (IaC).", []string{"AWS", "Terraform"}, 3),
		mk("p2_3", "K8s Prod Cluster", 2, StatusLocked, "Cloud", 600, 300, []string{"p2_1", "p2_2"},
			"Advanced orchestration and GitOps implementation.", []string{"Kubernetes", "ArgoCD"}, 5),
		mk("p2_4", "SOC-in-a-Box", 2, StatusLocked, "Security", 850, 300, []string{"p2_1"},
			"Security monitoring and threat detection.", []string{"ELK", "Wazuh"}, 4),
		mk("p3_1", "Multi-Cloud K8s", 3, StatusLocked, "Cloud", 350, 500, []string{"p2_3"},
			"Cluster federation and service mesh.", []string{"Rancher", "Istio"}, 5),
		mk("p3_2", "Zero Trust Network", 3, StatusLocked, "Security", 600, 500, []string{"p2_4"},
			"Modern security architecture without classic VPNs.", []string{"BeyondCorp", "WireGuard"}, 4),
		mk("p4_1", "Smart Factory (Capstone)", 4, StatusLocked, "Expert", 475, 700, []string{"p3_1", "p3_2"},
			"The Final Boss: IT + OT Convergence.", []string{"NSX-T", "IoT", "5G"}, 5),
	}

	projects[0].TimeSpentHours = 12
	projects[0].Notes = "## Key Learnings\n- Understanding OSI Layer 2 vs Layer 3\n- Raw socket manipulation in Linux requires root privileges."
	return projects
}
