package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ToolForge/toolforge/internal/compiler"
	"github.com/ToolForge/toolforge/internal/executor"
)

func newRunCmd() *cobra.Command {
	var (
		paramPairs   []string
		envPairs     []string
		rawArgs      string
		dialectName  string
		timeout      time.Duration
		workDir      string
		allowFailure bool
		jsonOut      bool
	)

	cmd := &cobra.Command{
		Use:   "run <tool>",
		Short: "Compile and execute a tool invocation",
		Long: `Run resolves a tool by name, interface, or alias, compiles its
definition against the supplied parameters, and executes it through the
declared shell dialect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}
			def, err := eng.resolveDefinition(args[0])
			if err != nil {
				return err
			}

			params, err := parseKeyValues(paramPairs)
			if err != nil {
				return err
			}
			tokens, err := compiler.Compile(def, params)
			if err != nil {
				return err
			}
			if rawArgs != "" {
				extra, err := shellquote.Split(rawArgs)
				if err != nil {
					return fmt.Errorf("invalid --raw value: %w", err)
				}
				tokens = append(tokens, extra...)
			}

			execPath, err := eng.platform.ResolveExecutable(def.Name, nil)
			if err != nil {
				return err
			}

			env := make(map[string]string)
			for _, declared := range def.EnvVars {
				env[declared.Name] = declared.Value
			}
			envOverrides, err := parseKeyValues(envPairs)
			if err != nil {
				return err
			}
			for k, v := range envOverrides {
				env[k] = fmt.Sprintf("%v", v)
			}

			effectiveTimeout := timeout
			if effectiveTimeout == 0 {
				declared, err := def.TimeoutDuration()
				if err != nil {
					return err
				}
				effectiveTimeout = declared
			}
			if effectiveTimeout == 0 {
				effectiveTimeout = eng.cfg.DefaultTimeout
			}

			var spin *spinner.Spinner
			if !jsonOut {
				spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
				spin.Suffix = " Running " + def.Name + "..."
				spin.Start()
			}

			result, execErr := eng.executor.Execute(cmd.Context(), execPath, tokens, &executor.Options{
				Env:          env,
				Dir:          workDir,
				Timeout:      effectiveTimeout,
				Dialect:      dialectName,
				AllowFailure: allowFailure,
			})
			if spin != nil {
				spin.Stop()
			}

			if jsonOut && result != nil {
				data, err := result.JSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				if execErr != nil && !allowFailure {
					return execErr
				}
				return nil
			}

			if execErr != nil {
				var exitFailure *executor.ExecError
				if errors.As(execErr, &exitFailure) {
					pterm.Error.Printf("%s exited with status %d (%s)\n",
						def.Name, exitFailure.Status, exitMeaning(def.ExitCodes, exitFailure.Status))
					if exitFailure.Stderr != "" {
						fmt.Fprint(cmd.ErrOrStderr(), exitFailure.Stderr)
					}
					return execErr
				}
				return execErr
			}

			pterm.Success.Printf("%s finished in %s\n", def.Name, result.DurationHuman())
			if result.Stdout != "" {
				fmt.Fprint(cmd.OutOrStdout(), result.Stdout)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&paramPairs, "param", "p", nil, "Parameter as key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&envPairs, "env", "e", nil, "Environment override as key=value (repeatable)")
	cmd.Flags().StringVar(&rawArgs, "raw", "", "Extra raw arguments appended after compiled tokens (shell-word split)")
	cmd.Flags().StringVar(&dialectName, "dialect", "", "Shell dialect to execute through")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Execution timeout (overrides definition and config)")
	cmd.Flags().StringVar(&workDir, "cwd", "", "Working directory for the process")
	cmd.Flags().BoolVar(&allowFailure, "allow-failure", false, "Treat a non-zero exit status as success")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the structured execution result as JSON")

	return cmd
}

func exitMeaning(table map[int]string, status int) string {
	if meaning, ok := table[status]; ok {
		return meaning
	}
	return "failure"
}
