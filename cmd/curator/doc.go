// Command curator reconciles dataset manifests against media on disk and runs
// partitioned copy, transcode and probe batches over the dataset.
//
// Every batch command accepts --num-slices and --slice-id so independent
// processes can split one deterministic task list between them. Runs are
// recorded in a local ledger; `curator runs failed <id>` prints the failing
// keys of a run for a targeted rerun.
package main
