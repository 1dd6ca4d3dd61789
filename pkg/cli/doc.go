/*
Package cli provides command-line helpers for the yamllist command.

Output Formatting:

Results are written as text, JSON or CSV. Tabular results implement Table
and are aligned in text output:

	format, err := cli.ParseOutputFormat(flagValue)
	if err != nil {
		return err
	}
	if err := cli.NewFormatter(format).FormatTo(os.Stdout, records); err != nil {
		return err
	}

Progress Reporting:

Commands that process many files report progress on stderr:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(int64(len(files)))
	for range files {
		progress.Increment()
	}
	progress.Finish()

Errors and Exit Codes:

Commands return CommandError or ConfigError; ExitCode maps them to the
process exit status.

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
