// Package e2e runs the whole ranking stack against a synthetic candidate
// pool large enough to make ordering mistakes visible.
package e2e

import (
	"fmt"
	"strings"
)

// Resume is one candidate in the pool.
type Resume struct {
	ID      string
	Source  string
	Content string
}

// RankCase pairs a job description with the candidate IDs that must appear
// in the ranked results. At least one of ExpectedIDs must be present.
type RankCase struct {
	Query       string
	BoostTerms  []string
	ExpectedIDs []string
	Description string
}

// Corpus holds the candidate pool and the ranking cases run against it.
type Corpus struct {
	Resumes []Resume
	Cases   []RankCase
}

type profile struct {
	role   string
	phrase string
	body   string
}

var profiles = []profile{
	{"staff-accountant", "CPA license audit general ledger", "Staff accountant. CPA license, audit and general ledger close, month-end reconciliations, GAAP reporting."},
	{"backend-go", "Go microservices PostgreSQL", "Backend engineer. Go microservices, PostgreSQL schema design, gRPC services, on-call rotation."},
	{"frontend-react", "React TypeScript design systems", "Frontend developer. React and TypeScript, design systems, accessibility audits, component libraries."},
	{"platform-kubernetes", "Kubernetes cluster operations Terraform", "Platform engineer. Kubernetes cluster operations, Terraform modules, CI pipelines, incident response."},
	{"data-science", "Python machine learning pandas", "Data scientist. Python machine learning models, pandas pipelines, experiment design, model monitoring."},
	{"ml-engineer", "PyTorch model training feature store", "Machine learning engineer. PyTorch model training, feature store design, batch and streaming inference."},
	{"mobile-ios", "Swift iOS UIKit", "Mobile developer. Swift and UIKit, iOS release process, App Store submissions, push notifications."},
	{"security-analyst", "incident response SIEM threat hunting", "Security analyst. Incident response, SIEM tooling, threat hunting, phishing triage."},
	{"devops-aws", "AWS Lambda CloudFormation serverless", "DevOps engineer. AWS Lambda, CloudFormation stacks, serverless deployments, cost tuning."},
	{"dba-postgres", "PostgreSQL replication query tuning", "Database administrator. PostgreSQL replication, query tuning, backup and restore drills."},
	{"qa-automation", "test automation Selenium Playwright", "QA engineer. Test automation with Selenium and Playwright, regression suites, flaky-test triage."},
	{"tech-writer", "documentation API reference style guide", "Technical writer. API reference documentation, style guide ownership, release notes."},
	{"payroll-specialist", "payroll processing benefits compliance", "Payroll specialist. Payroll processing, benefits administration, multi-state tax compliance."},
	{"financial-analyst", "financial modeling forecasting Excel", "Financial analyst. Financial modeling, revenue forecasting, Excel and SQL reporting."},
	{"sre", "observability Prometheus SLOs", "Site reliability engineer. Observability with Prometheus, SLO definitions, capacity planning."},
	{"data-engineer", "Kafka Airflow data pipelines", "Data engineer. Kafka topics, Airflow DAGs, warehouse data pipelines, schema evolution."},
	{"product-designer", "Figma prototyping user research", "Product designer. Figma prototyping, user research sessions, usability testing."},
	{"sales-engineer", "technical demos proof of concept", "Sales engineer. Technical demos, proof of concept builds, RFP responses."},
	{"support-lead", "customer escalations ticket triage", "Support lead. Customer escalations, ticket triage, knowledge base upkeep."},
	{"embedded-c", "firmware C RTOS", "Embedded engineer. Firmware in C, RTOS scheduling, board bring-up, hardware debugging."},
}

// BuildCorpus returns a pool of n resumes cycling through the profiles, each
// carrying a unique signature line so ranking cases can assert on exact IDs.
func BuildCorpus(n int) *Corpus {
	resumes := make([]Resume, 0, n)
	for i := 0; i < n; i++ {
		p := profiles[i%len(profiles)]
		id := fmt.Sprintf("%s-%03d", p.role, i)
		resumes = append(resumes, Resume{
			ID:      id,
			Source:  "/resumes/" + id + ".txt",
			Content: fmt.Sprintf("%s Signature skills: %s. Candidate number %03d.", p.body, p.phrase, i),
		})
	}
	return &Corpus{Resumes: resumes, Cases: buildCases(resumes)}
}

func buildCases(resumes []Resume) []RankCase {
	byRole := make(map[string][]string)
	for _, r := range resumes {
		role := r.ID[:strings.LastIndex(r.ID, "-")]
		byRole[role] = append(byRole[role], r.ID)
	}
	return []RankCase{
		{
			Query:       "Staff accountant with a CPA license and audit background",
			ExpectedIDs: byRole["staff-accountant"],
			Description: "accounting role matches accounting resumes",
		},
		{
			Query:       "Backend engineer writing Go services against PostgreSQL",
			ExpectedIDs: byRole["backend-go"],
			Description: "backend role matches Go resumes",
		},
		{
			Query:       "Engineer to run our Kubernetes clusters and Terraform runway",
			ExpectedIDs: byRole["platform-kubernetes"],
			Description: "platform role matches platform resumes",
		},
		{
			Query:       "Security analyst for incident response and threat hunting",
			ExpectedIDs: byRole["security-analyst"],
			Description: "security role matches security resumes",
		},
		{
			Query:       "Engineer for our infrastructure team",
			BoostTerms:  []string{"Kubernetes"},
			ExpectedIDs: byRole["platform-kubernetes"],
			Description: "boost term pulls Kubernetes resumes up for a vague role",
		},
	}
}
