package infracheck

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest lists the files each check inspects and what it expects of them
type Manifest struct {
	Template    TemplateSpec    `yaml:"template"`
	Parameters  ParametersSpec  `yaml:"parameters"`
	Website     WebsiteSpec     `yaml:"website"`
	Application ApplicationSpec `yaml:"application"`
	Scripts     ScriptsSpec     `yaml:"scripts"`
}

type TemplateSpec struct {
	Path               string   `yaml:"path"`
	RequiredSections   []string `yaml:"required_sections"`
	RequiredResources  []string `yaml:"required_resources"`
	IntrinsicFunctions []string `yaml:"intrinsic_functions"`
	MinIntrinsic       int      `yaml:"min_intrinsic"`
}

type ParametersSpec struct {
	Files        []string `yaml:"files"`
	RequiredKeys []string `yaml:"required_keys"`
}

type WebsiteSpec struct {
	Files []string `yaml:"files"`
}

type ApplicationSpec struct {
	Path               string   `yaml:"path"`
	RequiredComponents []string `yaml:"required_components"`
}

type ScriptsSpec struct {
	Files   []string `yaml:"files"`
	Shebang string   `yaml:"shebang"`
}

// DefaultManifest describes the three-tier infrastructure repository layout
func DefaultManifest() *Manifest {
	return &Manifest{
		Template: TemplateSpec{
			Path:             "aws-infrastructure/cloudformation/three-tier-architecture.yaml",
			RequiredSections: []string{"AWSTemplateFormatVersion", "Description", "Parameters", "Resources", "Outputs"},
			RequiredResources: []string{
				"VPC", "InternetGateway", "PublicSubnet1", "PublicSubnet2",
				"PrivateSubnet1", "PrivateSubnet2", "DatabaseSubnet1", "DatabaseSubnet2",
				"ApplicationLoadBalancer", "AutoScalingGroup", "DatabaseCluster",
				"StaticWebsiteBucket",
			},
			IntrinsicFunctions: []string{"!Ref", "!GetAtt", "!Sub", "!Select", "!GetAZs"},
			MinIntrinsic:       3,
		},
		Parameters: ParametersSpec{
			Files: []string{
				"aws-infrastructure/parameters/dev-parameters.json",
				"aws-infrastructure/parameters/prod-parameters.json",
			},
			RequiredKeys: []string{"EnvironmentName", "VpcCIDR", "DBUsername", "DBPassword"},
		},
		Website: WebsiteSpec{
			Files: []string{
				"aws-infrastructure/static-website/index.html",
				"aws-infrastructure/static-website/error.html",
			},
		},
		Application: ApplicationSpec{
			Path: "cmd/appserver/main.go",
			RequiredComponents: []string{
				"func main()",
				"appserver.New(",
				"appserver.NewMetadataClient(",
				"server.Run(",
			},
		},
		Scripts: ScriptsSpec{
			Files: []string{
				"aws-infrastructure/scripts/deploy.sh",
				"aws-infrastructure/scripts/cleanup.sh",
			},
			Shebang: "#!/bin/bash",
		},
	}
}

// LoadManifest reads a YAML manifest. Sections left out keep their defaults.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m := DefaultManifest()
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return m, nil
}

// Paths returns every file the manifest refers to
func (m *Manifest) Paths() []string {
	paths := []string{m.Template.Path, m.Application.Path}
	paths = append(paths, m.Parameters.Files...)
	paths = append(paths, m.Website.Files...)
	paths = append(paths, m.Scripts.Files...)
	return paths
}
