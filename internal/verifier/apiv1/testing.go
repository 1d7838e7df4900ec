package apiv1

import (
	"eudiwallet/pkg/configuration"
	"eudiwallet/pkg/openid4vp"
)

// SetSigningKeyForTesting sets the OIDC signing key for testing purposes.
// This is needed because the production code has a TODO for loading the key from config.
func (c *Client) SetSigningKeyForTesting(key any, alg string) {
	c.oidcSigningKey = key
	c.oidcSigningAlg = alg
}

// AddPresentationTemplateForTesting adds a presentation template for testing
// This rebuilds the presentation builder with the new template
func (c *Client) AddPresentationTemplateForTesting(template *configuration.PresentationRequestTemplate) {
	// Get existing templates if any
	var templates []*configuration.PresentationRequestTemplate
	if c.presentationBuilder != nil {
		// Extract existing templates (this is a simple approach for testing)
		// In production, templates are loaded once at startup
		templates = []*configuration.PresentationRequestTemplate{template}
	} else {
		templates = []*configuration.PresentationRequestTemplate{template}
	}

	// Rebuild the presentation builder with all templates
	c.presentationBuilder = openid4vp.NewPresentationBuilder(templates)
}
