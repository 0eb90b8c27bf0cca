package cmd

import (
	"encoding/json"
	"fmt"
)

// IdentifyCmd shows which repository a URL belongs to
type IdentifyCmd struct {
	Format string `help:"Output format: text or json" enum:"text,json" default:"text"`
	URL    string `arg:"" help:"Page URL"`
}

// Run executes the command
func (i *IdentifyCmd) Run(cli *CLI) error {
	repo := cli.Container.Identifier.IdentifyURL(i.URL)
	if repo == nil {
		return fmt.Errorf("%s is not a repository page", i.URL)
	}

	if i.Format == "json" {
		data, err := json.MarshalIndent(map[string]string{
			"canonical_url": repo.CanonicalURL,
			"full_name":     repo.FullName,
			"name":          repo.Name,
			"owner":         repo.Owner,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("%s\n%s\n", repo.FullName, repo.CanonicalURL)
	return nil
}
