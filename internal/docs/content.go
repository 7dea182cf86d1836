package docs

var topics = []Topic{
	{
		Name:    "quickstart",
		Title:   "Quick Start",
		Summary: "Getting started with profilewiz",
		Content: topicQuickstart,
	},
	{
		Name:    "config",
		Title:   "Configuration Reference",
		Summary: "Config file schema, fields, and defaults",
		Content: topicConfig,
	},
	{
		Name:    "workflow",
		Title:   "Wizard Workflow",
		Summary: "Steps, validation, the advisory check, and submission",
		Content: topicWorkflow,
	},
	{
		Name:    "persistence",
		Title:   "Saved Progress",
		Summary: "What is saved, when, and how to clear it",
		Content: topicPersistence,
	},
}

const topicQuickstart = `Quick Start
===========

1. Initialize a project:

    cd your-project
    profilewiz init

   This creates profilewiz.yaml with every default written out.

2. Set advisory.endpoint in profilewiz.yaml to the advisory service URL.
   Optionally set submission.endpoint; without it finished profiles are
   written to the outbox directory.

3. Fill in the profile:

    profilewiz run

   Each section is one step. "Continue" validates the step before moving
   on. Quitting keeps everything typed so far.

4. Check progress without opening the wizard:

    profilewiz status
    profilewiz validate

5. Start over:

    profilewiz reset
`

const topicConfig = `Configuration Reference
=======================

File: profilewiz.yaml in the project root, or the path given with --config.
Unknown keys are rejected.

  store-dir         Directory holding saved progress.
                    Default: .profilewiz (relative to the project root)

  snapshot-key      Name of the saved-progress entry. Letters, digits,
                    dot, underscore and dash.
                    Default: companyProfileWizardData

  save-debounce     Delay before an edit is written to disk. Edits made
                    within the delay are written once.
                    Default: 500ms

  advisory:
    endpoint        URL of the advisory validation service. Required
                    for 'run'.
    timeout         Per-request timeout. Default: 30s

  submission:
    endpoint        URL that receives finished profiles as JSON.
    outbox-dir      Directory receiving finished profiles as files.
                    Default: <store-dir>/outbox
    timeout         Per-request timeout for endpoint. Default: 30s

  endpoint and outbox-dir are mutually exclusive.

Every key can be overridden on the command line or with an environment
variable: PROFILEWIZ_STORE_DIR, PROFILEWIZ_SNAPSHOT_KEY,
PROFILEWIZ_ADVISORY_ENDPOINT, PROFILEWIZ_SUBMISSION_ENDPOINT and so on.
`

const topicWorkflow = `Wizard Workflow
===============

Steps
-----
One step per section, in the order listed by 'profilewiz docs fields',
followed by Review & Submit.

Continue checks the current section against the data as it is now. A
section that passed earlier is checked again every time. Back never
checks anything.

Review
------
The review step shows every section as the advisory service will see it.

  Run advisory check   Checks the whole profile first. If any section is
                       incomplete the service is not called. Otherwise
                       the service returns a verdict with optional flags.

  Submit profile       Offered once the advisory check has run for the
                       current data. Flags do not block submission; a
                       missing check does.

  Edit a section       Jumps back to a section.

Any edit, and leaving the review step, discards the verdict. A verdict
that arrives after the data changed is discarded as stale.

After a successful submission saved progress is erased and the wizard
starts over. A failed submission keeps the verdict, so submitting again
does not require a new advisory check.
`

const topicPersistence = `Saved Progress
==============

Only the profile data is saved, as one JSON document under
<store-dir>/<snapshot-key>.json. The current step and the advisory
verdict are not saved: a resumed session always starts at the first step
and needs a fresh advisory check.

Saved data is merged over the defaults, so sections or fields added in a
later release appear empty rather than missing. Unknown fields are
ignored.

A saved file that cannot be parsed is discarded with a warning and the
wizard starts empty.

  profilewiz status    Shows which sections of the saved data pass.
  profilewiz validate  Lists every failing field.
  profilewiz reset     Erases saved progress.
`
