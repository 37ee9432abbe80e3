package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mithrel/quill/internal/ipc"
)

func newStatusCmd() *cobra.Command {
	var window string
	var all, asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the document state of a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []ipc.WindowStatus
			if all {
				resp, err := request(cmd, ipc.Message{Name: ipc.MsgWindowList})
				if err != nil {
					return err
				}
				list = resp.Windows
			} else {
				resp, err := request(cmd, ipc.Message{Name: ipc.MsgWindowStatus, Window: window})
				if err != nil {
					return err
				}
				if resp.Status != nil {
					list = append(list, *resp.Status)
				}
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}
			return writeStatusTable(cmd.OutOrStdout(), list)
		},
	}
	addWindowFlag(cmd, &window)
	cmd.Flags().BoolVarP(&all, "all", "a", false, "list every window")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func writeStatusTable(out io.Writer, list []ipc.WindowStatus) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "WINDOW\tTITLE\tEDITED\tPATH")
	for _, st := range list {
		id := st.ID
		if st.Active {
			id += " *"
		}
		edited := "no"
		if st.Edited {
			edited = "yes"
		}
		path := st.Path
		if path == "" {
			path = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", id, st.Title, edited, path)
	}
	return tw.Flush()
}

func newWindowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Manage host windows",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "new",
		Short: "Open an empty window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := request(cmd, ipc.Message{Name: ipc.MsgWindowNew})
			if err != nil {
				return err
			}
			printf(cmd, "%s\n", resp.Window)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "focus <id>",
		Short: "Make a window the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := request(cmd, ipc.Message{Name: ipc.MsgWindowFocus, Window: args[0]})
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "close <id>",
		Short: "Close a window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := request(cmd, ipc.Message{Name: ipc.MsgWindowClose, Window: args[0]})
			return err
		},
	})
	return cmd
}

func newRecentCmd() *cobra.Command {
	var limit int
	var clearAll bool
	cmd := &cobra.Command{
		Use:   "recent [query]",
		Short: "List recently opened documents, optionally fuzzy-filtered",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if clearAll {
				_, err := request(cmd, ipc.Message{Name: ipc.MsgRecentClear})
				return err
			}
			m := ipc.Message{Name: ipc.MsgRecentList, Limit: limit}
			if len(args) == 1 {
				m.Query = args[0]
			}
			resp, err := request(cmd, m)
			if err != nil {
				return err
			}
			for _, d := range resp.Recent {
				printf(cmd, "%s\n", d.Path)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of documents")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "forget all recent documents")
	return cmd
}
