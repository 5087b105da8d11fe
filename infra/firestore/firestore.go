package firestore

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/firestore"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

type indexField struct {
	path  string
	order string
}

// compositeIndexes covers the multi-field queries on the flat collections:
// the migration's active-budget check and the frontend's per-user listings.
var compositeIndexes = map[string][]indexField{
	"budgets":      {{"userId", "ASCENDING"}, {"isActive", "ASCENDING"}},
	"transactions": {{"userId", "ASCENDING"}, {"date", "DESCENDING"}},
	"accounts":     {{"userId", "ASCENDING"}, {"createdAt", "DESCENDING"}},
	"goals":        {{"userId", "ASCENDING"}, {"targetDate", "ASCENDING"}},
}

func SetupFirestore(ctx *pulumi.Context, prov *gcp.Provider) (*firestore.Database, error) {
	svc, err := enableFireStore(ctx, prov)
	if err != nil {
		return nil, err
	}

	db, err := createDatabase(ctx, prov, svc)
	if err != nil {
		return nil, err
	}

	if err := createIndexes(ctx, prov, db); err != nil {
		return nil, err
	}
	return db, nil
}

func enableFireStore(ctx *pulumi.Context, prov *gcp.Provider) (*projects.Service, error) {
	return projects.NewService(ctx, "firestore", &projects.ServiceArgs{
		Service: pulumi.String("firestore.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
}

func createDatabase(ctx *pulumi.Context, prov *gcp.Provider, res ...pulumi.Resource) (*firestore.Database, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")

	return firestore.NewDatabase(ctx, "firestoreDatabase", &firestore.DatabaseArgs{
		Project:    pulumi.String(projectID),
		Name:       pulumi.String("(default)"),
		LocationId: pulumi.String(region),
		Type:       pulumi.String("FIRESTORE_NATIVE"),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}

func createIndexes(ctx *pulumi.Context, prov *gcp.Provider, db *firestore.Database) error {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")

	for collection, fields := range compositeIndexes {
		args := make(firestore.IndexFieldArray, 0, len(fields))
		for _, f := range fields {
			args = append(args, &firestore.IndexFieldArgs{
				FieldPath: pulumi.String(f.path),
				Order:     pulumi.String(f.order),
			})
		}

		_, err := firestore.NewIndex(ctx, fmt.Sprintf("%sByUser", collection), &firestore.IndexArgs{
			Project:    pulumi.String(projectID),
			Database:   db.Name,
			Collection: pulumi.String(collection),
			Fields:     args,
		},
			pulumi.Provider(prov),
			pulumi.DependsOn([]pulumi.Resource{db}),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
