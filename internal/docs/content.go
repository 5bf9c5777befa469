package docs

var topics = []Topic{
	{
		Name:    "quickstart",
		Title:   "Quick Start",
		Summary: "Getting started with quill",
		Content: topicQuickstart,
	},
	{
		Name:    "config",
		Title:   "Configuration Reference",
		Summary: "Config file schema, defaults and environment overrides",
		Content: topicConfig,
	},
	{
		Name:    "stages",
		Title:   "Stages",
		Summary: "Outline, retrieval and composition, and how quill moves between them",
		Content: topicStages,
	},
	{
		Name:    "outline",
		Title:   "Editing the Outline",
		Summary: "Paths, node ids and the outline commands",
		Content: topicOutline,
	},
	{
		Name:    "stub",
		Title:   "Offline Stub Backend",
		Summary: "Running quill without the processing service",
		Content: topicStub,
	},
	{
		Name:    "files",
		Title:   "Session Files",
		Summary: "What quill keeps under .quill/",
		Content: topicFiles,
	},
}

const topicQuickstart = `
QUICK START

quill drives an AI writing service through three stages: it asks for an
outline on a topic, researches every leaf section of that outline, then has
the article composed from what was found.

  1. Create the project directory:

       quill init

  2. Start a backend. Either point backend.base-url at the real service, or
     run the offline stand-in in another terminal:

       quill stub

  3. Write an article in one go. You review the outline before research
     starts:

       quill run "AI in education"

  Or step through the stages yourself:

       quill new "AI in education"
       quill outline show
       quill outline add root "Ethics" --summary "Privacy and bias"
       quill retrieve
       quill compose
       quill status

  Ctrl-C stops watching a stage. The backend keeps working; run
  'quill watch retrieval' or 'quill watch article' to pick it up again.

  'quill adopt <process-id>' takes over a process started elsewhere once its
  retrieval has begun, then 'quill run' carries it to the article.
`

const topicConfig = `
CONFIGURATION REFERENCE

quill looks for .quill/config.yaml in the current directory and its
parents. Without one, the defaults below apply to the current directory.

  backend:
    base-url          Processing service URL          http://127.0.0.1:8000
    request-timeout   Bound on one-shot requests      30s

  polling:
    interval          Delay between status requests   3s
    fetch-timeout     Bound on one status request     10s
                      (must not exceed request-timeout)

  retrieval:
    use-web           Search the web                  true
    use-kb            Search the knowledge base       true
                      (at least one must be true)

  log:
    file              JSON log file, rotated at 10MB  .quill/logs/quill.log
    level             debug, info, warn or error      info
    console           Also log to stderr              false

  stub:
    addr              Listen address of 'quill stub'  127.0.0.1:8000

ENVIRONMENT

  QUILL_BASE_URL       overrides backend.base-url
  QUILL_POLL_INTERVAL  overrides polling.interval (e.g. 500ms)
  QUILL_LOG_LEVEL      overrides log.level

  A .env file next to .quill/ is read too. Variables already set in the
  environment win over .env.
`

const topicStages = `
STAGES

  outline      The backend generated an outline. Edit it locally; nothing is
               sent until retrieval starts.
  retrieval    Every leaf section is researched independently. quill polls
               the status until all leaves report completion.
  composition  The article is written from the research. quill polls until
               the backend reports "Completed" or "Error".
  done         The article is saved in the session; 'quill status' shows it.

MOVING BETWEEN STAGES

  'quill retrieve' saves the outline to the backend first, then starts
  retrieval. 'quill compose' refuses to start until retrieval is complete.
  When a command needs something an earlier stage produces, quill names the
  command to run instead.

  A failed composition leaves the process in the composition stage. Run
  'quill compose' again to retry.

POLLING

  Status requests never overlap. A failed request is logged and retried on
  the next interval; a 404 stops polling because the backend no longer knows
  the process. Each request is bounded by polling.fetch-timeout.
`

const topicOutline = `
EDITING THE OUTLINE

'quill outline show' prints each section with its path and id:

  root     AI in education [root-node-1718000000000-1a2b3c4d]
  0          Background [node-1718000000001-5e6f7a8b]
  0.0          Definitions [node-1718000000002-9c0d1e2f]

A path lists child positions from the root. Paths shift when sections
before them are added or removed; ids do not.

  quill outline add <parent-id|path> <title> [--summary text]
  quill outline edit <id|path> --title text [--summary text]
  quill outline rm <id|path>
  quill outline save

The root cannot be removed. Removing a section removes everything under it.
Edits stay local until 'quill outline save' or 'quill retrieve'.
`

const topicStub = `
OFFLINE STUB BACKEND

'quill stub' serves the processing API from memory so the client can be
tried without the AI service. It is deterministic:

  - a new process gets a fixed three-section outline
  - each retrieval status request completes one more leaf section
  - each article request advances composition one step, ending in an
    article rendered from the outline

Processes are forgotten after 24 hours or when the stub exits.

  quill stub --addr 127.0.0.1:9000
`

const topicFiles = `
SESSION FILES

  .quill/config.yaml     project configuration
  .quill/session.json    the active process: id, topic, outline, last known
                         retrieval and composition status, article
  .quill/timing.json     start and end of each stage
  .quill/logs/           rotated JSON logs

'quill reset' forgets the active process locally. The backend is not told.
'quill doctor' checks that these files parse and that the backend answers;
when a check fails it prints the end of the log.
`
