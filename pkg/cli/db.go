package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gmitev/dbsession"
	"github.com/gmitev/dbsession/pkg/config"
)

// connFlags carries the connection flags shared by every command. Flags
// left empty fall back to the environment via pkg/config.
type connFlags struct {
	dialect   string
	host      string
	port      string
	database  string
	username  string
	password  string
	envPrefix string
}

func (f *connFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dialect, "dialect", "postgres", "Database dialect (postgres|mysql|sqlite)")
	cmd.Flags().StringVar(&f.host, "host", "", "Database host")
	cmd.Flags().StringVar(&f.port, "port", "", "Database port")
	cmd.Flags().StringVar(&f.database, "db", "", "Database name (file path for sqlite)")
	cmd.Flags().StringVar(&f.username, "user", "", "Database user")
	cmd.Flags().StringVar(&f.password, "password", "", "Database password")
	cmd.Flags().StringVar(&f.envPrefix, "env-prefix", config.DefaultPrefix, "Environment variable prefix for connection options")
}

// open connects a session from flags plus environment fallback.
func (f *connFlags) open() (*dbsession.Session, error) {
	dialect, err := dbsession.DialectByName(f.dialect)
	if err != nil {
		return nil, err
	}

	opts := config.Merge(dbsession.Options{
		Host:     f.host,
		Port:     f.port,
		Database: f.database,
		Username: f.username,
		Password: f.password,
	}, config.FromEnv(f.envPrefix))

	session := dbsession.New(dialect)
	if !session.Connect(opts) {
		return nil, fmt.Errorf("connect failed: %s", lastError(session))
	}
	return session, nil
}

func lastError(s *dbsession.Session) string {
	errs := s.Errors()
	if len(errs) == 0 {
		return "unknown error"
	}
	return errs[len(errs)-1]
}

// NewPingCmd builds the `ping` command: connect, then disconnect.
func NewPingCmd() *cobra.Command {
	flags := &connFlags{}
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check database connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := flags.open()
			if err != nil {
				return err
			}
			defer session.Close()
			cmd.Println("ok")
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// NewExecCmd builds the `exec` command: run a statement and report the
// affected-row count.
func NewExecCmd() *cobra.Command {
	flags := &connFlags{}
	cmd := &cobra.Command{
		Use:   "exec <sql>",
		Short: "Execute a SQL statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := flags.open()
			if err != nil {
				return err
			}
			defer session.Close()

			if !session.Query(args[0]) {
				return fmt.Errorf("exec failed: %s", lastError(session))
			}
			cmd.Printf("%d row(s) affected\n", session.AffectedRows())
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// NewQueryCmd builds the `query` command: run a statement and print every
// row of the result set.
func NewQueryCmd() *cobra.Command {
	flags := &connFlags{}
	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a query and print the rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := flags.open()
			if err != nil {
				return err
			}
			defer session.Close()

			if !session.Query(args[0]) {
				return fmt.Errorf("query failed: %s", lastError(session))
			}
			for _, row := range session.FetchAll() {
				cmd.Println(formatRow(row))
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func formatRow(row map[string]any) string {
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = fmt.Sprintf("%s=%v", col, row[col])
	}
	return strings.Join(parts, "\t")
}
