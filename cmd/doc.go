// Package cmd provides the stencil command-line interface.
//
// Running stencil with no subcommand builds the site described by
// .stencil.yml: every manifest page is rendered, every style compiled and the
// public tree copied into the build directory. With --dev the output goes to
// .devbuild instead and is served on http://127.0.0.1:8080 until interrupted.
//
// # Commands
//
//   - stencil: build the site (serve it with --dev)
//   - check: render every manifest page without writing anything
//   - version: print build information
//
// # Configuration
//
// Settings are read, from highest to lowest priority, from command-line
// flags, STENCIL_* environment variables (a .env file in the working
// directory is loaded first), and the configuration file named by --config
// or STENCIL_CONFIG_FILE, defaulting to .stencil.yml.
//
//	dirs:
//	  build: build
//	  templates: templates
//	  public: public
//	  styles: styles
//	url: https://example.com
//	globals: data/site.yml
//	pages:
//	  - path: index
//	    template: index
//	    data: {title: Home}
//	  - path: robots
//	    content: "User-agent: *"
package cmd
