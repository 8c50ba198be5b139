// Package pkg provides the libraries behind tfdiagram.
//
// # Overview
//
// tfdiagram turns the environments of a Terraform project into diagrams. It
// does no graph work of its own: terraform prepares each environment,
// blast-radius draws it and Graphviz backs both. The packages here sequence
// those tools and record what they produced.
//
//  1. [environment] - The registry of known environments and on-disk checks
//  2. [config] - Optional project config file and dotenv loading
//  3. [command] - Process execution behind a small Runner interface
//  4. [prereq] - Tool availability checks
//  5. [terraform], [blastradius] - Tool adapters returning step outcomes
//  6. [pipeline] - Batch generation and serve mode
//  7. [manifest] - The metadata.json index of generated diagrams
//  8. [render] - In-process DOT validation and SVG rendering
//
// # Data Flow
//
//	registry ─→ validate ─→ terraform init/plan ─→ blast-radius --svg/--dot ─→ cleanup
//	                                                        ↓
//	                                          diagrams/<name>.svg, <name>.dot
//	                                                        ↓
//	                                              diagrams/metadata.json
//
// # Error Handling
//
// Fatal conditions are [errors.Error] values carrying a code. Tolerated step
// failures are [outcome.Outcome] values with Warn severity, so a skipped
// plan or a missing DOT capture never aborts a batch.
package pkg
