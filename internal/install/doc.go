// Package install runs the SDK install pipeline for one platform.
//
// [Orchestrator.Run] executes, in order: cache restore, preflight, SDK
// download and install, optional runtime install, stripdown and cache save,
// and verification. Cache failures and failed verification are reported as
// warnings; everything else aborts the run.
package install
