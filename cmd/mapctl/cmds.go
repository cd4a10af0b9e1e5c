/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docmesh/docnode/pkg/mapping"
)

func loadMapper(path string) (*mapping.DocumentMapper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := mapping.MappingFromSource(data, mapping.NullRegistry{}, mapping.NewNativeScripts(16))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mapping.NewDocumentMapper(m, mapping.NullRegistry{}, nil)
}

func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields <mapping-file>",
		Short: "print the flattened field index of a mapping file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dm, err := loadMapper(args[0])
			if err != nil {
				return err
			}
			dm.Indexes().Fields(func(f *mapping.FieldDef) {
				required := ""
				if f.Required() {
					required = "\trequired"
				}
				fmt.Printf("%s\t%s%s\n", f.Path(), f.DataKind(), required)
			})
			return nil
		},
	}
}

func newObjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "objects <mapping-file>",
		Short: "print the flattened object index of a mapping file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dm, err := loadMapper(args[0])
			if err != nil {
				return err
			}
			dm.Indexes().Objects(func(o *mapping.ObjectDef) {
				path := o.Path()
				if path == "" {
					path = "<root>"
				}
				fmt.Printf("%s\t%s\n", path, o.Kind())
			})
			return nil
		},
	}
}

func newMergeCmd() *cobra.Command {
	var simulate bool
	var widen bool
	cmd := &cobra.Command{
		Use:   "merge <live-mapping-file> <incoming-mapping-file>",
		Short: "merge an incoming partial mapping into a live one and report the outcome",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dm, err := loadMapper(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			incoming, err := mapping.MappingFromSource(data, nil, mapping.NewNativeScripts(16))
			if err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}

			res, err := dm.Merge(incoming, simulate, widen)
			if err != nil {
				return err
			}
			if res.HasConflicts() {
				fmt.Println("merge conflicts:")
				for _, c := range res.Conflicts() {
					fmt.Printf("  %s\n", c)
				}
				return nil
			}
			for _, o := range res.NewObjects() {
				fmt.Printf("new object\t%s\t%s\n", o.Path(), o.Kind())
			}
			for _, f := range res.NewFields() {
				fmt.Printf("new field\t%s\t%s\n", f.Path(), f.DataKind())
			}
			if !simulate {
				fmt.Println(dm.MappingSource())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&simulate, "simulate", false, "report the outcome without committing")
	cmd.Flags().BoolVar(&widen, "widen", false, "allow type widening across sibling document types")
	return cmd
}
