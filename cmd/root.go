package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/optirust-go/scheduler/internal/auth"
	"github.com/optirust-go/scheduler/internal/availability"
	"github.com/optirust-go/scheduler/internal/directory"
	"github.com/optirust-go/scheduler/internal/holidays"
	"github.com/optirust-go/scheduler/internal/logger"
	"github.com/optirust-go/scheduler/internal/model"
	"github.com/optirust-go/scheduler/internal/orchestrator"
)

var (
	cfgFile         string
	credentialsFile string
	inputFile       string
	configFile      string
	book            bool
	debug           bool
)

var rootCmd = &cobra.Command{
	Use:   "optirust-scheduler",
	Short: "Schedule meetings against shared calendars with an ILP solver",
	Long: `optirust-scheduler reads a set of desired meetings and a room/policy
config, fetches attendee and room availability from Google Calendar, and
finds a conflict-free assignment of one slot per meeting by encoding the
problem as an integer program and solving it with cbc.`,
	RunE: runSchedule,
}

// Execute runs the root command and exits the process with the
// resulting code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "viper-config", "", "viper config file for ambient settings (default is ./optirust.yaml)")
	rootCmd.PersistentFlags().StringVar(&credentialsFile, "credentials", "credentials.json", "Google API credentials file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.Flags().StringVarP(&inputFile, "input", "i", "", "path to the desired-meetings YAML file (required)")
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "path to the room/policy config YAML file (required)")
	rootCmd.Flags().BoolVarP(&book, "book", "b", false, "commit the winning assignment to the calendar provider")

	rootCmd.MarkFlagRequired("input")
	rootCmd.MarkFlagRequired("config")

	viper.BindPFlag("credentials", rootCmd.PersistentFlags().Lookup("credentials"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("input", rootCmd.Flags().Lookup("input"))
	viper.BindPFlag("config", rootCmd.Flags().Lookup("config"))
	viper.BindPFlag("book", rootCmd.Flags().Lookup("book"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("optirust")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("MEETSCHED")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("loaded ambient config")
	}
}

func runSchedule(cmd *cobra.Command, args []string) error {
	logger.Init(viper.GetBool("debug"))

	meetings, err := model.LoadInput(viper.GetString("input"))
	if err != nil {
		return fail(err)
	}

	cfg, err := model.LoadConfig(viper.GetString("config"))
	if err != nil {
		return fail(err)
	}

	opts := orchestrator.NewOptions(cfg)
	opts.Book = viper.GetBool("book")

	calService, err := auth.GetCalendarService(viper.GetString("credentials"), opts.Book)
	if err != nil {
		return fail(&model.Error{Kind: model.KindProvider, Message: "connect to Google Calendar", Err: err})
	}

	opts.Fetcher = &availability.GCalFetcher{
		Service:            calService,
		Holidays:           holidays.NewService(nil, nil),
		IgnoreAllDayEvents: opts.IgnoreAllDayEvents,
		IgnoreNoResponse:   opts.IgnoreNoResponse,
	}

	dirService, err := auth.GetDirectoryService(viper.GetString("credentials"))
	if err != nil {
		return fail(&model.Error{Kind: model.KindProvider, Message: "connect to Google Directory", Err: err})
	}
	opts.AttendeeResolver = &directory.Resolver{Service: dirService}

	if opts.Book {
		opts.Booker = &availability.GCalBooker{Service: calService}
	}

	solution, err := orchestrator.Run(context.Background(), meetings, cfg, opts)
	if err != nil {
		return fail(err)
	}

	printSolution(solution)

	if !solution.Solved {
		os.Exit(1)
	}
	return nil
}

// fail logs a fatal error with its taxonomy kind and exits the
// process with code 1; it does not return.
func fail(err error) error {
	if appErr, ok := err.(*model.Error); ok {
		log.Error().Str("kind", string(appErr.Kind)).Err(err).Msg("run failed")
	} else {
		log.Error().Err(err).Msg("run failed")
	}
	os.Exit(1)
	return err
}

func printSolution(solution *model.Solution) {
	if !solution.Solved {
		fmt.Println("no optimal assignment found")
		return
	}
	for _, meeting := range sortedSlugs(solution) {
		entry := solution.Assignment[meeting]
		room := "none"
		if entry.Candidate.HasRoom() {
			room = entry.Candidate.Room
		}
		fmt.Printf("%s: %s - %s (room: %s, score: %d)\n",
			entry.Meeting.Title,
			entry.Candidate.Start.Local().Format("2006-01-02 15:04"),
			entry.Candidate.End.Local().Format("2006-01-02 15:04"),
			room,
			entry.Candidate.Score,
		)
	}
}

func sortedSlugs(solution *model.Solution) []string {
	slugs := make([]string, 0, len(solution.Assignment))
	for slug := range solution.Assignment {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}
